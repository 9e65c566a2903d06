package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// ActivityEvent represents an admin activity event for NATS publishing
type ActivityEvent struct {
	Type  string                   `json:"type"` // "recorded"
	Entry *models.AdminActivityLog `json:"entry"`
}

// Publisher publishes admin activity events to NATS for real-time
// back-office streaming
type Publisher struct {
	client *Client
	logger *logrus.Logger
}

// NewPublisher creates a new activity event publisher
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishActivity publishes an activity log event. Failures are reported to
// the caller for logging only; delivery is best-effort.
func (p *Publisher) PublishActivity(ctx context.Context, entry *models.AdminActivityLog) error {
	if p.client == nil || !p.client.IsConnected() {
		p.logger.Warn("NATS not connected, skipping activity event publish")
		return nil
	}

	event := ActivityEvent{
		Type:  "recorded",
		Entry: entry,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	// Subject: activity.{resource_type}.{action}, lowercased
	subject := fmt.Sprintf("activity.%s.%s",
		strings.ToLower(orOther(entry.ResourceType)),
		strings.ToLower(orOther(entry.Action)),
	)

	_, err = p.client.JetStream().Publish(subject, data, nats.Context(ctx))
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"action":  entry.Action,
			"subject": subject,
		}).WithError(err).Error("Failed to publish activity event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"action":  entry.Action,
		"subject": subject,
	}).Debug("Published activity event")

	return nil
}

func orOther(s string) string {
	if s == "" {
		return "other"
	}
	return s
}
