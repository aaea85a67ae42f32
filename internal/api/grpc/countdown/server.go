package countdown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/store"
)

// Field names shared by requests, responses and the persisted record.
const (
	fieldID     = "id"
	fieldLabel  = "label"
	fieldTarget = "target"
)

// Service abstracts the store operations the transport depends on.
type Service interface {
	Loaded() bool
	Snapshot() []domain.Timer
	Add(ctx context.Context, label string, target time.Time) (domain.Timer, error)
	Remove(ctx context.Context, id string) error
}

// Server implements TimerServiceServer on top of a Service.
type Server struct {
	// service provides the timer operations.
	service Service
}

var _ TimerServiceServer = (*Server)(nil)

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// ListTimers returns every timer in insertion order.
func (s *Server) ListTimers(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	if !s.service.Loaded() {
		return nil, status.Error(codes.FailedPrecondition, "timer store is not loaded")
	}

	timers := s.service.Snapshot()

	list := &structpb.ListValue{
		Values: make([]*structpb.Value, 0, len(timers)),
	}

	for _, timer := range timers {
		list.Values = append(list.Values, structpb.NewStructValue(ToStruct(timer)))
	}

	return list, nil
}

// AddTimer creates a timer. The label may be blank; the target is required.
func (s *Server) AddTimer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	label, err := optionalString(req, fieldLabel)
	if err != nil {
		return nil, err
	}

	rawTarget, err := optionalString(req, fieldTarget)
	if err != nil {
		return nil, err
	}

	if rawTarget == "" {
		return nil, status.Error(codes.InvalidArgument, "target is required")
	}

	target, err := domain.ParseTarget(rawTarget)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid target: %v", err)
	}

	timer, err := s.service.Add(ctx, label, target)
	if err != nil {
		return nil, toStatus(ctx, "add timer", err)
	}

	return ToStruct(timer), nil
}

// RemoveTimer deletes the timer with the given ID. Unknown IDs succeed.
func (s *Server) RemoveTimer(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.service.Remove(ctx, req.GetValue()); err != nil {
		return nil, toStatus(ctx, "remove timer", err)
	}

	return new(emptypb.Empty), nil
}

// ToStruct converts a timer into its wire message.
func ToStruct(timer domain.Timer) *structpb.Struct {
	record := timer.Serialize()

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldID:     structpb.NewStringValue(record.ID),
			fieldLabel:  structpb.NewStringValue(record.Label),
			fieldTarget: structpb.NewStringValue(record.Target),
		},
	}
}

// FromStruct converts a wire message back into a timer.
// Every field must be present as a string.
func FromStruct(msg *structpb.Struct) (domain.Timer, error) {
	fields := msg.GetFields()

	for _, name := range []string{fieldID, fieldLabel, fieldTarget} {
		if _, ok := fields[name].GetKind().(*structpb.Value_StringValue); !ok {
			return domain.Timer{}, fmt.Errorf("%w: %s must be a string", domain.ErrMalformedRecord, name)
		}
	}

	return domain.Deserialize(domain.Record{
		ID:     fields[fieldID].GetStringValue(),
		Label:  fields[fieldLabel].GetStringValue(),
		Target: fields[fieldTarget].GetStringValue(),
	})
}

// optionalString returns the string field name, or "" when absent.
func optionalString(msg *structpb.Struct, name string) (string, error) {
	value, ok := msg.GetFields()[name]
	if !ok {
		return "", nil
	}

	if _, isString := value.GetKind().(*structpb.Value_StringValue); !isString {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}

	return value.GetStringValue(), nil
}

// toStatus maps store errors onto gRPC status codes.
func toStatus(ctx context.Context, operation string, err error) error {
	if errors.Is(err, store.ErrNotLoaded) {
		return status.Error(codes.FailedPrecondition, "timer store is not loaded")
	}

	logger.ErrorKV(ctx, "Timer operation failed", "operation", operation, "error", err)

	return status.Errorf(codes.Internal, "unable to %s", operation)
}
