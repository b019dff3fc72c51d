package extract

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/MondainMessiah/daily-boss-checker/internal/models"
)

// Records pulls name/chance pairs out of the raw list. Elements that are not
// objects, lack a non-empty name, or lack a numeric chance are skipped.
func Records(list []any, nameKey, chanceKey string) []models.BossRecord {
	out := make([]models.BossRecord, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj[nameKey].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		chance, ok := toChance(obj[chanceKey])
		if !ok {
			continue
		}
		out = append(out, models.BossRecord{Name: name, Chance: chance})
	}
	return out
}

// Rank keeps records with a positive chance, orders them by chance
// descending with ties left in input order, and truncates to topN.
func Rank(records []models.BossRecord, topN int) []models.BossRecord {
	out := make([]models.BossRecord, 0, len(records))
	for _, r := range records {
		if r.Chance > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Chance > out[j].Chance
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Percent renders a chance as a whole percentage, rounding half up and
// clamping to [0, 100].
func Percent(chance float64) int {
	if math.IsNaN(chance) || chance <= 0 {
		return 0
	}
	if chance >= 100 {
		return 100
	}
	return int(math.Floor(chance + 0.5))
}

func toChance(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(n), "%")
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
