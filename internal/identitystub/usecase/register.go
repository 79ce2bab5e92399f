package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/harvestlink/farmgate/internal/identitystub/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
)

type RegisterInput struct {
	Email string `validate:"required,contains=@"`
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Phone string `validate:"required,phonedigits=10"`
}

type RegisterOutput struct {
	Email string
	Name  string
	Phone string
	Role  string
}

// Register creates an account in the farmer role.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.users.Create(ctx, entity.User{
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
		Role:  "farmer",
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("An account with this email already exists.", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  user.Role,
	}, nil
}
