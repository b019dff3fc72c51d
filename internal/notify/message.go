package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/MondainMessiah/daily-boss-checker/internal/extract"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
)

const (
	ColorRanked = 0x2ecc71
	ColorEmpty  = 0x95a5a6

	EmptyTitle = "Boss Spawn Chances"
	EmptyText  = "No bosses with a spawn chance right now."
)

// Message is a Discord webhook payload. Exactly one of Content or Embeds is
// set by the constructors below.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	Color       int     `json:"color"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
}

type Footer struct {
	Text string `json:"text"`
}

// ReportMessage renders a ranking. An empty ranking becomes the neutral
// "nothing found" embed instead of a list.
func ReportMessage(r models.Ranking, sourceURL string, at time.Time) Message {
	embed := Embed{
		Title:     fmt.Sprintf("Top %d Boss Spawn Chances", len(r.Bosses)),
		URL:       sourceURL,
		Color:     ColorRanked,
		Timestamp: at.UTC().Format(time.RFC3339),
		Footer:    &Footer{Text: "Data from " + sourceURL},
	}

	var b strings.Builder
	if r.Context != "" {
		fmt.Fprintf(&b, "Server: **%s**\n\n", r.Context)
	}
	if r.Empty() {
		embed.Title = EmptyTitle
		embed.Color = ColorEmpty
		b.WriteString(EmptyText)
	} else {
		for i, boss := range r.Bosses {
			fmt.Fprintf(&b, "%d. **%s** - %d%%\n", i+1, boss.Name, extract.Percent(boss.Chance))
		}
	}
	embed.Description = strings.TrimRight(b.String(), "\n")

	return Message{Embeds: []Embed{embed}}
}

func FailureMessage(err error) Message {
	return Message{Content: "Bot Error: " + err.Error()}
}
