package tests

import (
	"context"
	"testing"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/identity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/session"
	"github.com/harvestlink/farmgate/internal/authflow/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/jwt"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
)

func newFlowAgainst(t *testing.T, baseURL string, store session.Store, onLogin func(entity.Profile)) *usecase.Flow {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	client := identity.NewClient(identity.Config{BaseURL: baseURL}, instrument.NewNoop())

	return usecase.New(usecase.Dependency{
		Identity:   client,
		Session:    store,
		Validator:  v10,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
		OnLogin:    onLogin,
	})
}

func TestSignupThenLoginEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL, box := startStub(t)

	var logins []entity.Profile
	store := session.NewMemory()
	flow := newFlowAgainst(t, baseURL, store, func(p entity.Profile) { logins = append(logins, p) })

	// A fresh email lands in signup.
	if err := flow.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: "Rosa@Farm.example"}); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if flow.Mode() != entity.ModeSignup {
		t.Fatalf("mode = %v, want Signup", flow.Mode())
	}

	if err := flow.SubmitSignup(ctx, usecase.SubmitSignupInput{Name: "Rosa Alvarez", Phone: "0812-345-6789"}); err != nil {
		t.Fatalf("SubmitSignup() error = %v", err)
	}
	if flow.Mode() != entity.ModeOTP {
		t.Fatalf("mode = %v, want OTP", flow.Mode())
	}

	// A wrong code is rejected and surfaced; the flow stays put.
	if err := flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: "999999"}); err == nil {
		t.Fatal("SubmitCode() with a guessed code should fail")
	}
	if flow.Mode() != entity.ModeOTP {
		t.Fatalf("mode = %v, want OTP after wrong code", flow.Mode())
	}
	if flow.LastError() == "" {
		t.Fatal("LastError() empty after rejection")
	}

	// The mailed code completes the flow.
	code := box.codeFor(t, "rosa@farm.example")
	if err := flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: code}); err != nil {
		t.Fatalf("SubmitCode() error = %v", err)
	}

	if flow.Mode() != entity.ModeAuthenticated {
		t.Fatalf("mode = %v, want Authenticated", flow.Mode())
	}
	if len(logins) != 1 || logins[0].Name != "Rosa Alvarez" || logins[0].Role != entity.RoleFarmer {
		t.Fatalf("logins = %+v", logins)
	}

	rec, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !rec.Authenticated() || rec.Email != "rosa@farm.example" {
		t.Fatalf("session = %+v", rec)
	}

	claims, err := jwt.Peek(rec.Token)
	if err != nil {
		t.Fatalf("Peek(token) error = %v", err)
	}
	if claims.Role != "farmer" || claims.Email != "rosa@farm.example" {
		t.Fatalf("claims = %+v", claims)
	}

	// Second session: the same email is now registered and logs straight in.
	store2 := session.NewMemory()
	flow2 := newFlowAgainst(t, baseURL, store2, nil)

	if err := flow2.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: "rosa@farm.example"}); err != nil {
		t.Fatalf("second SubmitEmail() error = %v", err)
	}
	if flow2.Mode() != entity.ModeOTP {
		t.Fatalf("mode = %v, want OTP for registered email", flow2.Mode())
	}

	code2 := box.codeFor(t, "rosa@farm.example")
	if err := flow2.SubmitCode(ctx, usecase.SubmitCodeInput{Code: code2}); err != nil {
		t.Fatalf("second SubmitCode() error = %v", err)
	}
	if flow2.Mode() != entity.ModeAuthenticated {
		t.Fatalf("mode = %v, want Authenticated", flow2.Mode())
	}
}

func TestResendIssuesFreshCodeEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL, box := startStub(t)

	store := session.NewMemory()
	flow := newFlowAgainst(t, baseURL, store, nil)

	if err := flow.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: "leo@farm.example"}); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if err := flow.SubmitSignup(ctx, usecase.SubmitSignupInput{Name: "Leo Tan", Phone: "0899 123 4567"}); err != nil {
		t.Fatalf("SubmitSignup() error = %v", err)
	}

	first := box.codeFor(t, "leo@farm.example")

	if err := flow.ResendCode(ctx); err != nil {
		t.Fatalf("ResendCode() error = %v", err)
	}
	latest := box.codeFor(t, "leo@farm.example")

	// The old code may or may not equal the new one (random digits), but only
	// the latest stored one verifies.
	if first != latest {
		if err := flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: first}); err == nil {
			t.Fatal("stale code was accepted after resend")
		}
	}

	if err := flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: latest}); err != nil {
		t.Fatalf("SubmitCode() with latest code error = %v", err)
	}
	if flow.Mode() != entity.ModeAuthenticated {
		t.Fatalf("mode = %v, want Authenticated", flow.Mode())
	}
}

func TestDuplicateRegistrationSurfacesUpstreamMessage(t *testing.T) {
	ctx := context.Background()
	baseURL, box := startStub(t)

	store := session.NewMemory()
	flow := newFlowAgainst(t, baseURL, store, nil)

	if err := flow.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: "mei@farm.example"}); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if err := flow.SubmitSignup(ctx, usecase.SubmitSignupInput{Name: "Mei Lin", Phone: "0811 222 3333"}); err != nil {
		t.Fatalf("SubmitSignup() error = %v", err)
	}
	code := box.codeFor(t, "mei@farm.example")
	if err := flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: code}); err != nil {
		t.Fatalf("SubmitCode() error = %v", err)
	}

	// A second flow that tries to sign the same email up again gets the
	// stub's conflict message verbatim.
	flow2 := newFlowAgainst(t, baseURL, session.NewMemory(), nil)
	if err := flow2.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: "mei@farm.example"}); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if flow2.Mode() != entity.ModeOTP {
		t.Fatalf("mode = %v, want OTP (email is registered now)", flow2.Mode())
	}
}
