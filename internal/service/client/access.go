package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/common"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/store"
)

// timerAccess is what the commands need from either the local store or the daemon.
type timerAccess interface {
	List(ctx context.Context) ([]countdown.Timer, error)
	Add(ctx context.Context, label string, target time.Time) (countdown.Timer, error)
	Remove(ctx context.Context, id string) error
	Now() time.Time
	Close() error
}

// localAccess works on the data file directly.
type localAccess struct {
	timers *store.Store
}

// List re-reads the data file so changes made by other processes show up.
func (l *localAccess) List(ctx context.Context) ([]countdown.Timer, error) {
	return l.timers.Load(ctx), nil
}

func (l *localAccess) Add(ctx context.Context, label string, target time.Time) (countdown.Timer, error) {
	return l.timers.Add(ctx, label, target)
}

func (l *localAccess) Remove(ctx context.Context, id string) error {
	return l.timers.Remove(ctx, id)
}

// Now reads the store's clock.
func (l *localAccess) Now() time.Time {
	return l.timers.Now()
}

// Close flushes pending writes and reports any that failed.
func (l *localAccess) Close() error {
	return l.timers.Close()
}

// remoteAccess forwards every operation to the daemon.
type remoteAccess struct {
	client *common.Client
	// clock supplies the local time the daemon's targets are compared with.
	clock countdown.Clock
}

func (r *remoteAccess) List(ctx context.Context) ([]countdown.Timer, error) {
	return r.client.List(ctx)
}

func (r *remoteAccess) Add(ctx context.Context, label string, target time.Time) (countdown.Timer, error) {
	return r.client.Add(ctx, label, target)
}

func (r *remoteAccess) Remove(ctx context.Context, id string) error {
	return r.client.Remove(ctx, id)
}

func (r *remoteAccess) Now() time.Time {
	return r.clock.Now()
}

func (r *remoteAccess) Close() error {
	return r.client.Close()
}

// open loads settings and connects to the timers the options select.
//
//nolint:ireturn // Callers only need the shared operations.
func open(ctx context.Context, opts *Options) (timerAccess, error) {
	settings, err := common.LoadSettings(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.Remote {
		client, err := common.Dial(ctx, settings.ServerAddress, common.WithCallTimeout(settings.Timeout))
		if err != nil {
			return nil, err
		}

		return &remoteAccess{client: client, clock: opts.clock()}, nil
	}

	timers, err := common.OpenStore(ctx, settings, store.WithClock(opts.clock()))
	if err != nil {
		return nil, fmt.Errorf("open timer store: %w", err)
	}

	return &localAccess{timers: timers}, nil
}
