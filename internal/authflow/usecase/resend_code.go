package usecase

import (
	"context"
	"log/slog"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
)

// ResendCode asks for a fresh code for the email already captured. The flow
// stays in OTP whether or not the request succeeds.
func (f *Flow) ResendCode(ctx context.Context) error {
	ctx, span := f.startSpan(ctx, "ResendCode")
	defer span.End()

	if err := f.begin(entity.ModeOTP); err != nil {
		return err
	}
	defer f.finish()

	email, name := f.Email(), f.Name()
	if err := f.identity.SendCode(ctx, email, entity.RoleFarmer, name); err != nil {
		if f.closed.Load() {
			return ErrClosed
		}
		slog.WarnContext(ctx, "resending code failed", "email", email, "error", err)
		return f.fail(err)
	}
	if f.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Back returns from signup to login, dropping what the signup step captured.
// The email stays so the login field can be prefilled. Back is refused while
// a call is in flight.
func (f *Flow) Back(ctx context.Context) error {
	_, span := f.startSpan(ctx, "Back")
	defer span.End()

	if f.closed.Load() {
		return ErrClosed
	}
	if f.pending.Load() {
		return ErrBusy
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != entity.ModeSignup {
		return ErrInvalidMode
	}

	f.mode = entity.ModeLogin
	f.name = ""
	f.phone = ""
	f.lastErr = ""
	return nil
}
