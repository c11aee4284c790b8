package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"frontdesk/internal/i18n"
	"frontdesk/internal/metrics"
	"frontdesk/internal/visitor"
)

// Notification tells a host about their visitor.
type Notification struct {
	Event       string    `json:"event"`
	Host        string    `json:"host"`
	VisitorID   string    `json:"visitor_id"`
	VisitorName string    `json:"visitor_name"`
	Company     string    `json:"company,omitempty"`
	BadgeNumber string    `json:"badge_number,omitempty"`
	At          time.Time `json:"at"`
	Text        string    `json:"text"`
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Build turns a visitor event into a notification with text in lang.
// ok is false when the event names no host.
func Build(typ string, evt visitor.Event, lang language.Tag) (Notification, bool) {
	if evt.Host == "" {
		return Notification{}, false
	}
	key := i18n.VisitorArrived
	if typ == visitor.EventCheckedOut {
		key = i18n.VisitorLeft
		if evt.Auto {
			key = i18n.VisitorAutoOut
		}
	}
	name := evt.Name
	if evt.Company != "" {
		name = fmt.Sprintf("%s (%s)", evt.Name, evt.Company)
	}
	return Notification{
		Event:       typ,
		Host:        evt.Host,
		VisitorID:   evt.VisitorID,
		VisitorName: evt.Name,
		Company:     evt.Company,
		BadgeNumber: evt.BadgeNumber,
		At:          evt.At,
		Text:        fmt.Sprintf(i18n.Message(lang, key), name),
	}, true
}

// Webhook posts notifications as JSON to a fixed URL.
type Webhook struct {
	client *resty.Client
	url    string
	log    zerolog.Logger
}

// NewWebhook creates a sender for url.
func NewWebhook(url string, timeout time.Duration, log zerolog.Logger) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Webhook{client: client, url: url, log: log.With().Str("component", "notify").Logger()}
}

func (w *Webhook) Send(ctx context.Context, n Notification) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(n).
		Post(w.url)
	if err != nil {
		metrics.IncNotification("error")
		return fmt.Errorf("notify webhook: %w", err)
	}
	if resp.IsError() {
		metrics.IncNotification("error")
		return fmt.Errorf("notify webhook: status %d", resp.StatusCode())
	}
	metrics.IncNotification("sent")
	w.log.Debug().Str("visitor_id", n.VisitorID).Str("event", n.Event).Msg("host notified")
	return nil
}

// Log only writes notifications to the log, used when no webhook is configured.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "notify").Logger()}
}

func (l *Log) Send(_ context.Context, n Notification) error {
	metrics.IncNotification("logged")
	l.log.Info().
		Str("host", n.Host).
		Str("visitor_id", n.VisitorID).
		Str("event", n.Event).
		Msg(n.Text)
	return nil
}
