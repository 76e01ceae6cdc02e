package workflow

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type JobStore interface {
	CreateJob(ctx context.Context, j job.Job) (job.Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	UpdateJob(ctx context.Context, j job.Job) (job.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, a application.Application) (application.Application, error)
	GetApplicationByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ExistsForJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	UpdateApplication(ctx context.Context, a application.Application) (application.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

// UserStore resolves the reviewer named on an application.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// Actor is the authenticated caller of a mutation.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// Engine enforces the job and application lifecycle. Every mutation is
// permission-checked, validated and persisted with a single store call;
// an event is published only after the store call succeeded and only when
// a status actually changed.
type Engine struct {
	jobs      JobStore
	apps      ApplicationStore
	users     UserStore
	events    EventSink
	observers Sinks
	validate  *validator.Validate
	now       func() time.Time
	newID     func() uuid.UUID
	logger    logrus.FieldLogger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithCommitObserver registers a sink that sees every committed mutation,
// including edits that change no status. Cache invalidation hangs off this.
func WithCommitObserver(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.observers = append(e.observers, sink)
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine wires the stores and the event sink. users may be nil, in which
// case an explicitly named reviewer is always rejected.
func NewEngine(jobs JobStore, apps ApplicationStore, users UserStore, events EventSink, opts ...Option) *Engine {
	if events == nil {
		events = discardSink{}
	}
	discard := logrus.New()
	discard.Out = io.Discard

	e := &Engine{
		jobs:     jobs,
		apps:     apps,
		users:    users,
		events:   events,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		newID:    uuid.New,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// publish runs after the store call has committed. Observers see everything;
// the event sink only sees real status changes.
func (e *Engine) publish(ctx context.Context, evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = e.now().UTC()
	}
	e.observers.Publish(ctx, evt)
	if evt.OldStatus == evt.NewStatus {
		return
	}
	e.events.Publish(ctx, evt)
}

func (e *Engine) validateStruct(v any) error {
	err := e.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerrors.Wrap(err, "validate input")
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[toSnake(fe.Field())] = describeTag(fe)
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrJobNotFound) || errors.Is(err, repository.ErrApplicationNotFound) {
		return ErrNotFound
	}
	return err
}
