// Package events publishes domain events emitted after successful mutations.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/mq"
)

// Event types emitted by the form and option-set stores.
const (
	FormCreated      = "form.created"
	FormUpdated      = "form.updated"
	FormDeleted      = "form.deleted"
	OptionSetCreated = "optionset.created"
	OptionSetUpdated = "optionset.updated"
	OptionSetDeleted = "optionset.deleted"
)

// Envelope is the wire format for a published domain event.
type Envelope struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

// Publisher emits event envelopes to the configured Kafka topic.
// A nil Publisher is valid and publishes nothing.
type Publisher struct {
	producer *mq.Producer
}

// NewPublisher wraps a producer; pass nil to disable publication.
func NewPublisher(producer *mq.Producer) *Publisher {
	if producer == nil {
		return nil
	}
	return &Publisher{producer: producer}
}

// Publish serialises and sends an event. Failures are logged, never
// surfaced: the mutation has already committed by the time an event
// is emitted.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload map[string]any) {
	if p == nil || p.producer == nil {
		return
	}

	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("events: failed to encode %s: %v", eventType, err)
		return
	}

	headers := map[string]string{"event-type": eventType}
	if err := p.producer.Publish(ctx, envelope.ID, value, headers); err != nil {
		log.Printf("events: failed to publish %s: %v", eventType, err)
	}
}

// Close flushes the underlying producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
