package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/config"
	"github.com/campus-market/marketplace-service/internal/events"
)

// NotificationService emits seller-facing notifications for domain events.
// Delivery channels are stubs logged at debug; the event wiring is real.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventInterestCreated, n.handleInterestCreated)
	n.dispatcher.Subscribe(events.EventReminderRequested, n.handleReminderRequested)
	n.dispatcher.Subscribe(events.EventListingStatusChanged, n.handleListingStatusChanged)
	n.dispatcher.Subscribe(events.EventListingDeleted, n.handleListingStatusChanged)
}

func (n *NotificationService) handleInterestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("InterestCreated", zap.String("listing_id", event.ListingID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReminderRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("ReminderRequested", zap.String("listing_id", event.ListingID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleListingStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ListingStatusChanged", zap.String("listing_id", event.ListingID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("listing_id", event.ListingID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("listing_id", event.ListingID),
		zap.String("event_type", string(event.Type)))
}
