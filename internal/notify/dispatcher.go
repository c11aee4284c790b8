package notify

import (
	"context"

	"github.com/rs/zerolog"

	"frontdesk/internal/i18n"
	"frontdesk/internal/metrics"
	"frontdesk/internal/queue"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/visitor"
)

// SettingsSource provides the current system settings.
type SettingsSource interface {
	Settings(ctx context.Context) (siteconfig.SystemSettings, error)
}

// Dispatcher turns queued visitor events into host notifications.
type Dispatcher struct {
	settings SettingsSource
	sender   Sender
	log      zerolog.Logger
}

func NewDispatcher(settings SettingsSource, sender Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{settings: settings, sender: sender, log: log.With().Str("component", "dispatcher").Logger()}
}

// Run handles messages until the channel closes. Failures are logged and the message dropped.
func (d *Dispatcher) Run(ctx context.Context, messages <-chan queue.Message) {
	for msg := range messages {
		if err := d.Handle(ctx, msg); err != nil {
			d.log.Error().Err(err).Str("type", msg.Type).Msg("notification failed")
		}
	}
}

// Handle notifies the host named in one event, if notifications are enabled.
func (d *Dispatcher) Handle(ctx context.Context, msg queue.Message) error {
	evt, err := visitor.DecodeEvent(msg)
	if err != nil {
		return err
	}
	st, err := d.settings.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.EnableNotifications {
		metrics.IncNotification("disabled")
		return nil
	}
	n, ok := Build(msg.Type, evt, i18n.Negotiate("", st.Language))
	if !ok {
		metrics.IncNotification("no_host")
		return nil
	}
	return d.sender.Send(ctx, n)
}
