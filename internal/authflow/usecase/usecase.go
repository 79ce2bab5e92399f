// Package usecase implements the multi-step authentication flow: email
// first, signup for unknown emails, then an emailed one-time code.
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/session"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// CodeLength is the number of digits in the emailed verification code.
const CodeLength = 6

var (
	// ErrClosed reports a call on a dismissed flow; its result must be
	// discarded, not rendered.
	ErrClosed = errors.New("authflow: flow is closed")

	// ErrBusy reports a second call while one is already in flight. The
	// front-end disables controls while Pending is true, so hitting this
	// means a race the flow refuses to run.
	ErrBusy = errors.New("authflow: a call is already in flight")

	// ErrInvalidMode reports an operation issued from the wrong step.
	ErrInvalidMode = errors.New("authflow: operation not valid in current mode")
)

// fallbackMessage is shown when a failure carries no message of its own.
const fallbackMessage = "Something went wrong. Please try again."

type identityClient interface {
	CheckExistence(ctx context.Context, email string) (entity.ExistenceStatus, error)
	Register(ctx context.Context, email, name, phone string) (*entity.User, error)
	SendCode(ctx context.Context, email, role, name string) error
	VerifyCode(ctx context.Context, email, code, role string) (*entity.Verified, error)
}

// Flow drives one pass through the authentication steps. A dismissed flow is
// dead: create a new one for the next attempt.
//
// At most one identity call is in flight at a time; Pending reports it so the
// front-end can disable controls. Methods are safe for concurrent use.
type Flow struct {
	id        string
	identity  identityClient
	session   session.Store
	validator validator.Validator
	ins       instrument.Instrumentation
	onLogin   func(entity.Profile)

	pending atomic.Bool
	closed  atomic.Bool

	mu         sync.Mutex
	mode       entity.Mode
	email      string
	name       string
	phone      string
	lastErr    string
	loginFired bool
}

// Dependency carries everything a Flow needs.
type Dependency struct {
	Identity   identityClient
	Session    session.Store
	Validator  validator.Validator
	UUID       uid.StringID
	Instrument instrument.Instrumentation

	// OnLogin runs exactly once, after the session record is persisted.
	OnLogin func(entity.Profile)
}

// New creates a Flow in the login mode.
func New(dep Dependency) *Flow {
	return &Flow{
		id:        dep.UUID.Generate(),
		identity:  dep.Identity,
		session:   dep.Session,
		validator: dep.Validator,
		ins:       dep.Instrument,
		onLogin:   dep.OnLogin,
		mode:      entity.ModeLogin,
	}
}

// ID identifies this flow instance.
func (f *Flow) ID() string {
	return f.id
}

// Mode returns the step currently presented.
func (f *Flow) Mode() entity.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Email returns the normalized email captured by the login step.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Name returns the name captured by the signup step.
func (f *Flow) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// Phone returns the phone captured by the signup step.
func (f *Flow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// LastError returns the message of the most recent failed attempt, or empty
// when the last attempt succeeded or none was made yet.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Pending reports whether an identity call is in flight.
func (f *Flow) Pending() bool {
	return f.pending.Load()
}

// Close dismisses the flow. Results of calls still in flight are discarded.
// Closing an authenticated flow keeps its mode; the session already exists.
func (f *Flow) Close() {
	f.closed.Store(true)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != entity.ModeAuthenticated {
		f.mode = entity.ModeClosed
	}
}

func (f *Flow) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return f.ins.Tracer("authflow.usecase").Start(ctx, name)
}

// begin runs the shared preamble of every step: reject closed flows and
// wrong-mode calls, clear the previous error, then claim the single
// in-flight slot. On success the caller owns the slot and must release it
// with finish.
func (f *Flow) begin(want entity.Mode) error {
	if f.closed.Load() {
		return ErrClosed
	}

	f.mu.Lock()
	if f.mode != want {
		f.mu.Unlock()
		return ErrInvalidMode
	}
	f.lastErr = ""
	f.mu.Unlock()

	if !f.pending.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (f *Flow) finish() {
	f.pending.Store(false)
}

// fail records err as the surfaced message and returns it unchanged.
func (f *Flow) fail(err error) error {
	f.mu.Lock()
	f.lastErr = failMessage(err)
	f.mu.Unlock()
	return err
}

func (f *Flow) setMode(m entity.Mode) {
	f.mu.Lock()
	f.mode = m
	f.mu.Unlock()
}

// failMessage turns an error into the text shown beneath the active step.
// Upstream rejections surface their message verbatim; validation failures
// list the offending fields; everything else gets a generic fallback.
func failMessage(err error) string {
	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr))
		for _, m := range verr {
			msgs = append(msgs, m)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; ")
	}

	var gerr *goerror.Error
	if errors.As(err, &gerr) && gerr.Type() == goerror.TypeBusiness {
		return gerr.Msg()
	}

	return fallbackMessage
}
