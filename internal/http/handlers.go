package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MondainMessiah/daily-boss-checker/internal/extract"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
	"github.com/MondainMessiah/daily-boss-checker/internal/service"
)

// Runner is the part of *service.Service the API needs.
type Runner interface {
	Preview(ctx context.Context) (models.Ranking, error)
	Run(ctx context.Context) (service.Outcome, error)
}

type Handlers struct {
	svc Runner
}

func NewHandlers(svc Runner) *Handlers { return &Handlers{svc: svc} }

type bossView struct {
	Name    string  `json:"name"`
	Chance  float64 `json:"chance"`
	Percent int     `json:"percent"`
}

type reportView struct {
	Context string     `json:"context"`
	Empty   bool       `json:"empty"`
	Bosses  []bossView `json:"bosses"`
}

func toView(r models.Ranking) reportView {
	out := reportView{Context: r.Context, Empty: r.Empty(), Bosses: make([]bossView, 0, len(r.Bosses))}
	for _, b := range r.Bosses {
		out.Bosses = append(out.Bosses, bossView{Name: b.Name, Chance: b.Chance, Percent: extract.Percent(b.Chance)})
	}
	return out
}

func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": "v1.0.0",
	})
}

// Report runs fetch and ranking without posting to the webhook.
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.svc.Preview(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(ranking))
}

// Run executes one full reported run, the same as a scheduled one.
func (h *Handlers) Run(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	body := map[string]any{"ok": true, "state": out.State}
	if out.Err != nil {
		body["error"] = out.Err.Error()
		body["error_type"] = service.ErrorType(out.Err)
	} else {
		body["report"] = toView(out.Ranking)
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writePipelineError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error":      err.Error(),
		"error_type": service.ErrorType(err),
	})
}
