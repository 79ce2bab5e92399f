package usecase

import (
	"context"
	"log/slog"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type SubmitCodeInput struct {
	Code string `validate:"required,len=6,numeric"`
}

// SubmitCode verifies the emailed code. Success persists the session record,
// fires the completion callback exactly once and moves the flow to
// authenticated. A wrong code keeps the flow in OTP so the farmer can retype
// or resend.
func (f *Flow) SubmitCode(ctx context.Context, in SubmitCodeInput) error {
	ctx, span := f.startSpan(ctx, "SubmitCode")
	defer span.End()

	if err := f.begin(entity.ModeOTP); err != nil {
		return err
	}
	defer f.finish()

	if err := f.validator.Validate(in); err != nil {
		return f.fail(goerror.NewInvalidInput(err))
	}

	email := f.Email()
	verified, err := f.identity.VerifyCode(ctx, email, in.Code, entity.RoleFarmer)
	if f.closed.Load() {
		// Dismissed while the check was in flight: no session, no callback.
		return ErrClosed
	}
	if err != nil {
		slog.WarnContext(ctx, "code verification failed", "email", email, "error", err)
		return f.fail(err)
	}

	rec := entity.Session{
		Token: verified.Token,
		Role:  entity.RoleFarmer,
		Name:  verified.User.Name,
		Email: verified.User.Email,
	}
	if err := f.session.Commit(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "persisting session failed", "email", email, "error", err)
		return f.fail(goerror.NewServer(err))
	}

	f.mu.Lock()
	f.mode = entity.ModeAuthenticated
	f.name = verified.User.Name
	f.phone = verified.User.Phone
	fire := !f.loginFired
	f.loginFired = true
	f.mu.Unlock()

	if fire && f.onLogin != nil {
		f.onLogin(entity.Profile{
			Name:  verified.User.Name,
			Email: verified.User.Email,
			Phone: verified.User.Phone,
			Role:  entity.RoleFarmer,
		})
	}
	return nil
}
