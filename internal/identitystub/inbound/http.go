package inbound

import (
	"context"

	"github.com/harvestlink/farmgate/internal/identitystub/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/router"
)

type uc interface {
	Check(ctx context.Context, in usecase.CheckInput) (*usecase.CheckOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	SendCode(ctx context.Context, in usecase.SendCodeInput) error
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/identity/check", end.Check)
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/send-code", end.SendCode)
	r.POST("/api/v1/identity/verify-code", end.VerifyCode)
}
