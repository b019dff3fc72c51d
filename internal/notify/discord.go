package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrDelivery means the webhook answered but refused the message.
type ErrDelivery struct {
	StatusCode int
	Body       string
}

func (e ErrDelivery) Error() string {
	return fmt.Sprintf("discord webhook returned %d: %s", e.StatusCode, e.Body)
}

type Discord struct {
	url    string
	client *resty.Client
}

func NewDiscord(webhookURL string) *Discord {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	return &Discord{url: webhookURL, client: client}
}

// Client exposes the resty client so tests can mock its transport.
func (d *Discord) Client() *resty.Client { return d.client }

func (d *Discord) Notify(ctx context.Context, msg Message) error {
	res, err := d.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("send to discord: %w", err)
	}
	if res.IsError() {
		return ErrDelivery{StatusCode: res.StatusCode(), Body: res.String()}
	}
	slog.InfoContext(ctx, "notify: posted message to discord", "status", res.StatusCode())
	return nil
}
