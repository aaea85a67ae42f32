package server

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/peer"

	domain "github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/store"
)

// service adapts the daemon's store to the transport and tags store logs
// with the calling peer.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// timers is the store owned by the daemon.
	timers *store.Store
}

// newService wraps a loaded store.
func newService(timers *store.Store) *service {
	return &service{
		timers: timers,
	}
}

// Loaded reports whether the store has read its data.
func (s *service) Loaded() bool {
	return s.timers.Loaded()
}

// Snapshot returns every timer in insertion order.
func (s *service) Snapshot() []domain.Timer {
	return s.timers.Snapshot()
}

// Add creates a timer on behalf of the calling peer.
func (s *service) Add(ctx context.Context, label string, target time.Time) (domain.Timer, error) {
	timer, err := s.timers.Add(withPeer(ctx), label, target)
	if err != nil {
		return domain.Timer{}, fmt.Errorf("add timer: %w", err)
	}

	return timer, nil
}

// Remove deletes a timer on behalf of the calling peer.
func (s *service) Remove(ctx context.Context, id string) error {
	if err := s.timers.Remove(withPeer(ctx), id); err != nil {
		return fmt.Errorf("remove timer: %w", err)
	}

	return nil
}

// withPeer attaches the remote address of the current RPC, if any, to the logger.
func withPeer(ctx context.Context) context.Context {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ctx
	}

	return logger.WithKV(ctx, "peer", p.Addr.String())
}
