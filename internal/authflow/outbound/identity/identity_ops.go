package identity

import (
	"context"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
)

// CheckExistence asks whether an email already has an account.
func (c *Client) CheckExistence(ctx context.Context, email string) (st entity.ExistenceStatus, err error) {
	ctx, span := c.startSpan(ctx, "CheckExistence")
	defer func() { c.endSpan(span, err) }()

	in := struct {
		Email string `json:"email"`
	}{Email: email}

	var out struct {
		Status string `json:"status"`
	}
	if err = c.post(ctx, "/api/v1/identity/check", in, &out); err != nil {
		return entity.ExistenceStatusUnknown, err
	}

	return entity.ExistenceStatusFromString(out.Status), nil
}

// Register creates an account for a new farmer.
func (c *Client) Register(ctx context.Context, email, name, phone string) (user *entity.User, err error) {
	ctx, span := c.startSpan(ctx, "Register")
	defer func() { c.endSpan(span, err) }()

	in := struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}{Email: email, Name: name, Phone: phone}

	var out struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Role  string `json:"role"`
	}
	if err = c.post(ctx, "/api/v1/identity/register", in, &out); err != nil {
		return nil, err
	}

	return &entity.User{
		Email: out.Email,
		Name:  out.Name,
		Phone: out.Phone,
		Role:  out.Role,
	}, nil
}

// SendCode asks the service to email a verification code.
func (c *Client) SendCode(ctx context.Context, email, role, name string) (err error) {
	ctx, span := c.startSpan(ctx, "SendCode")
	defer func() { c.endSpan(span, err) }()

	in := struct {
		Email string `json:"email"`
		Role  string `json:"role"`
		Name  string `json:"name,omitempty"`
	}{Email: email, Role: role, Name: name}

	return c.post(ctx, "/api/v1/identity/send-code", in, nil)
}

// VerifyCode exchanges a correct code for a session token and the account's
// profile.
func (c *Client) VerifyCode(ctx context.Context, email, code, role string) (v *entity.Verified, err error) {
	ctx, span := c.startSpan(ctx, "VerifyCode")
	defer func() { c.endSpan(span, err) }()

	in := struct {
		Email string `json:"email"`
		Code  string `json:"code"`
		Role  string `json:"role"`
	}{Email: email, Code: code, Role: role}

	var out struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Name  string `json:"name"`
			Phone string `json:"phone"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err = c.post(ctx, "/api/v1/identity/verify-code", in, &out); err != nil {
		return nil, err
	}

	return &entity.Verified{
		Token: out.Token,
		User: entity.User{
			Email: out.User.Email,
			Name:  out.User.Name,
			Phone: out.User.Phone,
			Role:  out.User.Role,
		},
	}, nil
}
