package idempotency

import (
	"context"
	"errors"
	"time"
)

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is the shape persisted for one checkout attempt.
type Record struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK
	Status         string    `dynamodbav:"status"`
	OrderID        string    `dynamodbav:"order_id,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}

// Store tracks checkout attempts by client-supplied key.
//
// Begin claims key. It returns created=true when the caller now owns the key
// (new, previously FAILED, or expired). Otherwise it returns the existing
// record so the caller can replay a DONE result or reject an IN_PROGRESS one.
type Store interface {
	Begin(ctx context.Context, key string) (rec *Record, created bool, err error)
	MarkDone(ctx context.Context, key, orderID string) error
	MarkFailed(ctx context.Context, key, note string) error
}

var (
	// ErrInProgress is returned to callers that retry while the first attempt is still running.
	ErrInProgress = errors.New("request with this idempotency key is in progress")
	ErrUnknownKey = errors.New("idempotency key not found")
)
