package chat

import (
	"context"
	"log/slog"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// MockChatNotifier is a secondary adapter that mocks posting alerts to a
// team chat channel. It implements the ports.Notifier interface.
type MockChatNotifier struct {
	channel string
	logger  *slog.Logger
}

// NewMockChatNotifier creates a new mock notifier posting to the given channel.
func NewMockChatNotifier(channel string, logger *slog.Logger) ports.Notifier {
	if channel == "" {
		channel = "#soporte-alertas"
	}
	return &MockChatNotifier{
		channel: channel,
		logger:  logger.With("component", "chat_notifier"),
	}
}

// Notify logs the alert to the console instead of posting to a chat service.
// It runs in a separate goroutine and should handle its own errors.
func (n *MockChatNotifier) Notify(ctx context.Context, event domain.AlertEvent) {
	n.logger.InfoContext(ctx, "mock chat message sent",
		"channel", n.channel,
		"alert_type", string(event.Type),
		"ticket_id", event.TicketID,
		"priority", event.Priority,
		"agent", event.Agent,
		"message", event.Message,
	)
}
