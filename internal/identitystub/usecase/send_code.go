package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/mail"
)

type SendCodeInput struct {
	Email string `validate:"required,contains=@"`
	Role  string `validate:"required,oneof=farmer customer admin"`
	Name  string `validate:"omitempty,max=100"`
}

// SendCode issues a verification code for an existing account and delivers
// it by email, or by log line when no mailer is configured.
func (s *Usecase) SendCode(ctx context.Context, in SendCodeInput) error {
	ctx, span := s.startSpan(ctx, "SendCode")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("No account for this email.", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to look up user", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	code, err := s.issueCode(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return s.deliver(ctx, in.Email, code)
}

// issueCode produces the code for email according to the configured mode.
func (s *Usecase) issueCode(ctx context.Context, email string) (string, error) {
	if s.mode == CodeModeTOTP {
		return s.totp.GenerateCode(s.totp.SecretFor(email), s.clock.Now())
	}

	code, err := randomDigits(6)
	if err != nil {
		return "", err
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		return "", err
	}

	if err := s.codes.Put(ctx, email, string(digest), s.codeTTL); err != nil {
		return "", err
	}
	return code, nil
}

func (s *Usecase) deliver(ctx context.Context, email, code string) error {
	if s.mail == nil {
		// Development default: the code lands in the stub's log.
		slog.InfoContext(ctx, "verification code issued", "email", email, "code", code)
		return nil
	}

	err := s.mail.Send(ctx, mail.Message{
		To:       []string{email},
		Subject:  "Your verification code",
		TextBody: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes())),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send code email", "email", email, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}

// randomDigits returns n digits from a cryptographic source.
func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out), nil
}
