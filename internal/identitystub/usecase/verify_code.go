package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/identitystub/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type VerifyCodeInput struct {
	Email string `validate:"required,contains=@"`
	Code  string `validate:"required,len=6,numeric"`
	Role  string `validate:"required,oneof=farmer customer admin"`
}

type VerifyCodeOutput struct {
	Token string
	User  entity.User
}

// VerifyCode checks the code and, when correct, issues a signed token. A
// consumed code cannot be replayed.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No account for this email.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.checkCode(ctx, in.Email, in.Code); err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user.Email, user.Name, user.Role)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyCodeOutput{Token: token, User: *user}, nil
}

func (s *Usecase) checkCode(ctx context.Context, email, code string) error {
	if s.mode == CodeModeTOTP {
		if !s.totp.Validate(code, s.totp.SecretFor(email), s.clock.Now()) {
			return goerror.NewBusiness("Incorrect code. Please try again.", goerror.CodeUnauthorized)
		}
		return nil
	}

	digest, err := s.codes.Get(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Code expired. Please request a new one.", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read stored code", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	if !s.hmac.Verify(digest, code) {
		return goerror.NewBusiness("Incorrect code. Please try again.", goerror.CodeUnauthorized)
	}

	if err := s.codes.Delete(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to consume code", "email", email, "error", err)
	}
	return nil
}
