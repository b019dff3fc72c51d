package extract

import (
	"log/slog"
	"strings"

	"github.com/MondainMessiah/daily-boss-checker/internal/config"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
)

// Extractor turns a fetched tracker page into a Ranking. It holds no state
// between calls, so the same document always yields the same Ranking.
type Extractor struct {
	Anchor             string
	Path               []string
	NameKey            string
	ChanceKey          string
	ContextKey         string
	ContextPlaceholder string
	TopN               int
}

func New(cfg config.Config) *Extractor {
	return &Extractor{
		Anchor:             cfg.PayloadAnchor,
		Path:               cfg.FieldPath,
		NameKey:            cfg.NameKey,
		ChanceKey:          cfg.ChanceKey,
		ContextKey:         cfg.ContextKey,
		ContextPlaceholder: cfg.ContextPlaceholder,
		TopN:               cfg.TopN,
	}
}

func (e *Extractor) Extract(doc models.RawDocument) (models.Ranking, error) {
	payload, err := Locate(doc, e.Anchor)
	if err != nil {
		return models.Ranking{}, err
	}
	slog.Debug("extract: payload located", "anchor", e.Anchor)

	resolved, err := Navigate(payload, e.Path)
	if err != nil {
		return models.Ranking{}, err
	}
	slog.Debug("extract: path resolved", "path", strings.Join(e.Path, "."), "count", len(resolved.List))

	records := Records(resolved.List, e.NameKey, e.ChanceKey)
	ranked := Rank(records, e.TopN)
	slog.Info("extract: bosses ranked",
		"candidates", len(resolved.List),
		"records", len(records),
		"reported", len(ranked),
	)

	return models.Ranking{
		Context: e.contextLabel(resolved.Parent),
		Bosses:  ranked,
	}, nil
}

func (e *Extractor) contextLabel(parent map[string]any) string {
	if parent != nil && e.ContextKey != "" {
		if label, ok := parent[e.ContextKey].(string); ok {
			if label = strings.TrimSpace(label); label != "" {
				return label
			}
		}
	}
	return e.ContextPlaceholder
}
