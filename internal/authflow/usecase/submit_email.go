package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type SubmitEmailInput struct {
	Email string `validate:"required,contains=@"`
}

// SubmitEmail runs the login step. A registered email gets a code and moves
// the flow to OTP; an unknown one moves it to signup. On failure the flow
// stays in login with the message surfaced.
func (f *Flow) SubmitEmail(ctx context.Context, in SubmitEmailInput) error {
	ctx, span := f.startSpan(ctx, "SubmitEmail")
	defer span.End()

	if err := f.begin(entity.ModeLogin); err != nil {
		return err
	}
	defer f.finish()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := f.validator.Validate(in); err != nil {
		return f.fail(goerror.NewInvalidInput(err))
	}

	status, err := f.identity.CheckExistence(ctx, in.Email)
	if f.closed.Load() {
		return ErrClosed
	}
	if err != nil {
		slog.WarnContext(ctx, "existence check failed", "email", in.Email, "error", err)
		return f.fail(err)
	}

	f.mu.Lock()
	f.email = in.Email
	f.mu.Unlock()

	if status == entity.ExistenceStatusNotRegistered {
		f.setMode(entity.ModeSignup)
		return nil
	}

	if err := f.identity.SendCode(ctx, in.Email, entity.RoleFarmer, ""); err != nil {
		if f.closed.Load() {
			return ErrClosed
		}
		slog.WarnContext(ctx, "sending code failed", "email", in.Email, "error", err)
		return f.fail(err)
	}
	if f.closed.Load() {
		return ErrClosed
	}

	f.setMode(entity.ModeOTP)
	return nil
}
