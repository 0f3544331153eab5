package events

import (
	"context"

	"github.com/cadastra/cepd/ports"
)

// NopPublisher discards every event. Used in tests and when no broker is wired.
type NopPublisher struct{}

func NewNopPublisher() ports.EventPublisher { return NopPublisher{} }

func (NopPublisher) PublishLogout(ctx context.Context, userID string, tokenID string) error {
	return nil
}
