package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type SubmitSignupInput struct {
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Phone string `validate:"required,phonedigits=10"`
}

// SubmitSignup registers the account, then asks for a code. Either call
// failing keeps the flow in signup with the message surfaced; only both
// succeeding moves it to OTP.
func (f *Flow) SubmitSignup(ctx context.Context, in SubmitSignupInput) error {
	ctx, span := f.startSpan(ctx, "SubmitSignup")
	defer span.End()

	if err := f.begin(entity.ModeSignup); err != nil {
		return err
	}
	defer f.finish()

	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := f.validator.Validate(in); err != nil {
		return f.fail(goerror.NewInvalidInput(err))
	}

	email := f.Email()
	user, err := f.identity.Register(ctx, email, in.Name, in.Phone)
	if f.closed.Load() {
		return ErrClosed
	}
	if err != nil {
		slog.WarnContext(ctx, "registration failed", "email", email, "error", err)
		return f.fail(err)
	}

	f.mu.Lock()
	f.name = user.Name
	f.phone = user.Phone
	f.mu.Unlock()

	if err := f.identity.SendCode(ctx, email, entity.RoleFarmer, user.Name); err != nil {
		if f.closed.Load() {
			return ErrClosed
		}
		slog.WarnContext(ctx, "sending code failed", "email", email, "error", err)
		return f.fail(err)
	}
	if f.closed.Load() {
		return ErrClosed
	}

	f.setMode(entity.ModeOTP)
	return nil
}
