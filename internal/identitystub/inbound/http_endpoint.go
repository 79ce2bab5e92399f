package inbound

import (
	"github.com/harvestlink/farmgate/internal/identitystub/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/router"
)

// HTTPEndpoint exposes the development identity endpoints.
type HTTPEndpoint struct {
	uc uc
}

// Check reports whether an email already has an account.
func (h *HTTPEndpoint) Check(r *router.Request) (any, error) {
	var req CheckRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Check(r.Context(), usecase.CheckInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return CheckResponse{Status: resp.Status}, nil
}

// Register creates an account in the farmer role.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Email: resp.Email,
		Name:  resp.Name,
		Phone: resp.Phone,
		Role:  resp.Role,
	}, nil
}

// SendCode emails a verification code to an existing account.
func (h *HTTPEndpoint) SendCode(r *router.Request) (any, error) {
	var req SendCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err := h.uc.SendCode(r.Context(), usecase.SendCodeInput{
		Email: req.Email,
		Role:  req.Role,
		Name:  req.Name,
	})
	if err != nil {
		return nil, err
	}

	return nil, nil
}

// VerifyCode exchanges a correct code for a signed token.
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Email: req.Email,
		Code:  req.Code,
		Role:  req.Role,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		Token: resp.Token,
		User: VerifyCodeUser{
			Email: resp.User.Email,
			Name:  resp.User.Name,
			Phone: resp.User.Phone,
			Role:  resp.User.Role,
		},
	}, nil
}
