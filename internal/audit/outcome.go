// Package audit records what happened to each password reset submission.
// Events never carry the password or the token itself.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/passreset/internal/domain"
	"github.com/nfrund/passreset/internal/pubsub"
)

// OutcomeTopic is the bus topic submit outcomes are published on.
const OutcomeTopic = "recovery.outcome"

// Outcome kinds.
const (
	KindSuccess   = "success"
	KindInvalid   = "validation_error"
	KindRejected  = "remote_rejection"
	KindTransport = "transport_error"
	KindRepeated  = "already_submitted"
)

// Outcome describes one finished submission.
type Outcome struct {
	Kind         string    `json:"kind"`
	TokenPresent bool      `json:"token_present"`
	StatusCode   int       `json:"status_code,omitempty"`
	At           time.Time `json:"at"`
}

// Classify maps the result of a submission onto an outcome kind.
func Classify(err error) (kind string, statusCode int) {
	var (
		vErr      *domain.ValidationError
		rejection *domain.RemoteRejectionError
	)
	switch {
	case err == nil:
		return KindSuccess, 0
	case errors.As(err, &vErr):
		return KindInvalid, 0
	case errors.As(err, &rejection):
		return KindRejected, rejection.StatusCode
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return KindRepeated, 0
	default:
		// Anything else means the request did not complete.
		return KindTransport, 0
	}
}

// NewOutcome builds the outcome of a submission that ended with err.
func NewOutcome(tokenPresent bool, err error) Outcome {
	kind, status := Classify(err)
	return Outcome{
		Kind:         kind,
		TokenPresent: tokenPresent,
		StatusCode:   status,
		At:           time.Now().UTC(),
	}
}

// Publish sends an outcome on the bus.
func Publish(ctx context.Context, pub pubsub.Publisher, requestID string, outcome Outcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	return pub.Publish(ctx, pubsub.Message{
		Topic:    OutcomeTopic,
		Payload:  payload,
		Metadata: map[string]string{"request_id": requestID},
	})
}

// Subscribe logs every outcome published on the bus.
func Subscribe(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	return sub.Subscribe(ctx, OutcomeTopic, func(ctx context.Context, msg pubsub.Message) error {
		var outcome Outcome
		if err := json.Unmarshal(msg.Payload, &outcome); err != nil {
			return fmt.Errorf("failed to decode outcome: %w", err)
		}

		attrs := []any{
			"kind", outcome.Kind,
			"token_present", outcome.TokenPresent,
			"request_id", msg.Metadata["request_id"],
			"at", outcome.At,
		}
		if outcome.StatusCode != 0 {
			attrs = append(attrs, "status", outcome.StatusCode)
		}

		if outcome.Kind == KindSuccess {
			logger.Info("Password reset submitted", attrs...)
		} else {
			logger.Warn("Password reset failed", attrs...)
		}
		return nil
	})
}
