package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type CheckInput struct {
	Email string `validate:"required,contains=@"`
}

type CheckOutput struct {
	Status string
}

// Check reports whether an email already has an account.
func (s *Usecase) Check(ctx context.Context, in CheckInput) (*CheckOutput, error) {
	ctx, span := s.startSpan(ctx, "Check")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return &CheckOutput{Status: "not_registered"}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CheckOutput{Status: "registered"}, nil
}
