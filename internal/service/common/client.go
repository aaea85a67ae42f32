//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/shoaibubaid/COUNTDOWN/internal/api/grpc/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/config"
	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
)

// Client talks to a running countdown daemon.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// dialOptions are appended to the defaults when connecting.
	dialOptions []grpc.DialOption
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions adds gRPC dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Dial prepares a connection to the countdown daemon.
// Transport is insecure; the daemon is meant to listen on loopback.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append(
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		client.dialOptions...,
	)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial countdown daemon: %w", err)
	}

	client.conn = conn

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// List returns every timer held by the daemon.
func (c *Client) List(ctx context.Context) ([]countdown.Timer, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	out := new(structpb.ListValue)
	if err := c.conn.Invoke(callCtx, api.ListTimersMethod, new(emptypb.Empty), out); err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}

	timers := make([]countdown.Timer, 0, len(out.GetValues()))

	for _, value := range out.GetValues() {
		timer, err := api.FromStruct(value.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("decode timer: %w", err)
		}

		timers = append(timers, timer)
	}

	return timers, nil
}

// Add creates a timer on the daemon.
func (c *Client) Add(ctx context.Context, label string, target time.Time) (countdown.Timer, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"label":  structpb.NewStringValue(label),
			"target": structpb.NewStringValue(target.In(time.Local).Format(countdown.TargetLayout)),
		},
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.AddTimerMethod, request, out); err != nil {
		return countdown.Timer{}, fmt.Errorf("add timer: %w", err)
	}

	timer, err := api.FromStruct(out)
	if err != nil {
		return countdown.Timer{}, fmt.Errorf("decode timer: %w", err)
	}

	return timer, nil
}

// Remove deletes a timer on the daemon.
func (c *Client) Remove(ctx context.Context, id string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.conn.Invoke(callCtx, api.RemoveTimerMethod, wrapperspb.String(id), new(emptypb.Empty)); err != nil {
		return fmt.Errorf("remove timer: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
