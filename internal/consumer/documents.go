package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/clientbridge/crm/config"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/service"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

const (
	reconnectDelay = 5 * time.Second

	messageTypeClientDoc = "client-doc"
)

// documentEvent is the wire envelope the processing pipeline publishes
type documentEvent struct {
	Type string `json:"type"`
	Data struct {
		DocumentID   string `json:"document_id"`
		DocumentType string `json:"document_type"`
		ClientID     uint   `json:"client_id"`
		StorageURL   string `json:"s3_url"`
		Filename     string `json:"filename"`
	} `json:"data"`
}

// DocumentConsumer drains processed-document events from the message broker
// and records them through the document service. Messages are acked only
// after the database write succeeds; transient failures are requeued and
// poison messages are dropped to the dead-letter exchange.
type DocumentConsumer struct {
	cfg       *config.Config
	documents *service.DocumentService
}

func NewDocumentConsumer(cfg *config.Config, documents *service.DocumentService) *DocumentConsumer {
	return &DocumentConsumer{cfg: cfg, documents: documents}
}

// Run consumes until the context is cancelled, reconnecting with a fixed
// delay when the broker connection drops.
func (c *DocumentConsumer) Run(ctx context.Context) {
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "consumer")

	for {
		if err := c.consume(ctx); err != nil {
			logger.ErrorWithContext(ctx, "Consumer stopped, reconnecting").
				Err(err).
				Log()
		}

		select {
		case <-ctx.Done():
			logger.InfoWithContext(ctx, "Document consumer shut down").Log()
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *DocumentConsumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.Queue.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		c.cfg.Queue.Exchange, // name
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	queue, err := ch.QueueDeclare(
		c.cfg.Queue.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange": c.cfg.Queue.Exchange + ".dlx",
		},
	)
	if err != nil {
		return err
	}

	if err := ch.QueueBind(queue.Name, c.cfg.Queue.Binding, c.cfg.Queue.Exchange, false, nil); err != nil {
		return err
	}

	if err := ch.Qos(10, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		queue.Name,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "Document consumer started").
		String("exchange", c.cfg.Queue.Exchange).
		String("queue", queue.Name).
		String("binding", c.cfg.Queue.Binding).
		Log()

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *DocumentConsumer) handle(ctx context.Context, delivery amqp.Delivery) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "handle")

	var envelope documentEvent
	if err := json.Unmarshal(delivery.Body, &envelope); err != nil {
		logger.WarnWithContext(ctx, "Dropping malformed document event").
			String("routing_key", delivery.RoutingKey).
			Err(err).
			Log()
		// Unparseable now is unparseable forever; dead-letter it.
		_ = delivery.Nack(false, false)
		return
	}

	if envelope.Type != messageTypeClientDoc {
		logger.WarnWithContext(ctx, "Dropping document event with unknown type").
			String("message_type", envelope.Type).
			String("routing_key", delivery.RoutingKey).
			Log()
		_ = delivery.Nack(false, false)
		return
	}

	event := service.ProcessedDocument{
		ClientID:     envelope.Data.ClientID,
		DocumentID:   envelope.Data.DocumentID,
		DocumentType: envelope.Data.DocumentType,
		Filename:     envelope.Data.Filename,
		StorageURL:   envelope.Data.StorageURL,
	}

	err := c.documents.RecordProcessed(ctx, event)
	if err == nil {
		logger.InfoWithContext(ctx, "Document event processed").
			String("document_id", event.DocumentID).
			Uint("client_id", event.ClientID).
			String("routing_key", delivery.RoutingKey).
			Log()
		_ = delivery.Ack(false)
		return
	}

	if errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrNotFound) {
		logger.WarnWithContext(ctx, "Dropping unprocessable document event").
			String("document_id", event.DocumentID).
			Uint("client_id", event.ClientID).
			Err(err).
			Log()
		_ = delivery.Nack(false, false)
		return
	}

	// Transient failure (database hiccup): requeue for another attempt.
	logger.ErrorWithContext(ctx, "Requeueing document event after failure").
		String("document_id", event.DocumentID).
		Err(err).
		Log()
	_ = delivery.Nack(false, true)
}
