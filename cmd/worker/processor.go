package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

// OrderJournal is the part of orders.DynamoJournal the worker needs.
type OrderJournal interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, expected, next orders.Status) error
}

// Processor moves freshly placed orders into processing.
type Processor struct {
	journal OrderJournal
}

func NewProcessor(j OrderJournal) *Processor {
	return &Processor{journal: j}
}

// Handle processes an SQS batch. Failed messages are reported individually so
// only they are redelivered (and eventually land in the DLQ).
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			log.Printf("[worker] message=%s error: %v", rec.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	if attr, ok := rec.MessageAttributes["event_type"]; ok && attr.StringValue != nil && *attr.StringValue != aws.EventOrderPlaced {
		log.Printf("[worker] skipping event_type=%s", *attr.StringValue)
		return nil
	}

	var msg aws.OrderPlacedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.OrderID == "" {
		return errors.New("message has no order_id")
	}

	log.Printf("[worker] received order=%s user=%s total=%s", msg.OrderID, msg.UserID, msg.TotalAmount)

	order, err := p.journal.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	// pending -> processing (idempotent)
	err = p.journal.UpdateStatus(ctx, msg.OrderID, orders.StatusPending, orders.StatusProcessing)
	if errors.Is(err, orders.ErrStatusMismatch) {
		// Already moved on: a duplicate delivery or an admin got there first.
		o2, gerr := p.journal.Get(ctx, msg.OrderID)
		if gerr != nil {
			return fmt.Errorf("failed to re-read order: %w", gerr)
		}
		if o2 == nil {
			return fmt.Errorf("order vanished: %s", msg.OrderID)
		}
		switch o2.Status {
		case orders.StatusProcessing, orders.StatusShipped, orders.StatusDelivered:
			log.Printf("[worker] duplicate event for order=%s status=%s", msg.OrderID, o2.Status)
			return nil
		case orders.StatusCancelled:
			log.Printf("[worker] order=%s was cancelled, nothing to do", msg.OrderID)
			return nil
		default:
			return fmt.Errorf("unexpected status for order=%s: %s", msg.OrderID, o2.Status)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update status to processing: %w", err)
	}

	log.Printf("[worker] order=%s is processing", msg.OrderID)
	return nil
}
