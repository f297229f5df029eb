package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

const (
	SubjectImportCompleted = "catalog.import.completed"
	SubjectProductCreated  = "catalog.product.created"
)

// Publisher emits catalog events over NATS. Publishing is best-effort
// audit trail; a publish failure is logged and never surfaced to the
// request that triggered it.
type Publisher struct {
	conn *nats.Conn
	log  *logrus.Entry
}

// NewPublisher connects to NATS at the given URL.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		conn: conn,
		log:  logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

type importCompletedEvent struct {
	EventID    string `json:"eventId"`
	OccurredAt string `json:"occurredAt"`
	Total      int    `json:"total"`
	Imported   int    `json:"imported"`
	Failed     int    `json:"failed"`
	Summary    string `json:"summary"`
}

// PublishImportCompleted publishes the summary of a finished import.
func (p *Publisher) PublishImportCompleted(ctx context.Context, result *models.ImportResult) {
	p.publish(SubjectImportCompleted, importCompletedEvent{
		EventID:    uuid.New().String(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Total:      result.Total,
		Imported:   result.Imported,
		Failed:     result.Failed,
		Summary:    result.Summary,
	})
}

type productCreatedEvent struct {
	EventID    string `json:"eventId"`
	OccurredAt string `json:"occurredAt"`
	ProductID  string `json:"productId"`
	SKU        string `json:"sku"`
	Category   string `json:"category"`
}

// PublishProductCreated publishes a product.created event.
func (p *Publisher) PublishProductCreated(ctx context.Context, product *models.Product) {
	p.publish(SubjectProductCreated, productCreatedEvent{
		EventID:    uuid.New().String(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		ProductID:  product.ProductID,
		SKU:        product.SKU,
		Category:   product.Category,
	})
}

func (p *Publisher) publish(subject string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).WithField("subject", subject).Warn("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}
