package inbound

import (
	"context"
	"strings"
	"testing"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/session"
	"github.com/harvestlink/farmgate/internal/authflow/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
)

type scriptedIdentity struct {
	status entity.ExistenceStatus
	sends  int
}

func (s *scriptedIdentity) CheckExistence(_ context.Context, email string) (entity.ExistenceStatus, error) {
	return s.status, nil
}

func (s *scriptedIdentity) Register(_ context.Context, email, name, phone string) (*entity.User, error) {
	return &entity.User{Email: email, Name: name, Phone: phone, Role: entity.RoleFarmer}, nil
}

func (s *scriptedIdentity) SendCode(context.Context, string, string, string) error {
	s.sends++
	return nil
}

func (s *scriptedIdentity) VerifyCode(_ context.Context, email, code, role string) (*entity.Verified, error) {
	return &entity.Verified{
		Token: "tok",
		User:  entity.User{Email: email, Name: "Green Farmer", Phone: "0812345678", Role: role},
	}, nil
}

func newTestFlow(t *testing.T, id *scriptedIdentity, store *session.Memory) *usecase.Flow {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	return usecase.New(usecase.Dependency{
		Identity:   id,
		Session:    store,
		Validator:  v10,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
}

func TestRunLoginThroughCode(t *testing.T) {
	id := &scriptedIdentity{status: entity.ExistenceStatusRegistered}
	store := session.NewMemory()
	flow := newTestFlow(t, id, store)

	script := "farmer@example.com\n123456\n"
	var out strings.Builder

	term := NewTerminal(flow, strings.NewReader(script), &out)
	if err := term.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if flow.Mode() != entity.ModeAuthenticated {
		t.Fatalf("mode = %v, want Authenticated", flow.Mode())
	}
	rec, _ := store.Current(context.Background())
	if !rec.Authenticated() {
		t.Fatalf("session record = %+v, want authenticated", rec)
	}
	if !strings.Contains(out.String(), "Welcome, Green Farmer!") {
		t.Fatalf("output missing welcome line:\n%s", out.String())
	}
}

func TestRunSignupPath(t *testing.T) {
	id := &scriptedIdentity{status: entity.ExistenceStatusNotRegistered}
	store := session.NewMemory()
	flow := newTestFlow(t, id, store)

	script := "new@example.com\nNew Farmer\n0812345678\n123456\n"
	var out strings.Builder

	term := NewTerminal(flow, strings.NewReader(script), &out)
	if err := term.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if flow.Mode() != entity.ModeAuthenticated {
		t.Fatalf("mode = %v, want Authenticated", flow.Mode())
	}
	if !strings.Contains(out.String(), "Let's create one") {
		t.Fatalf("output missing signup prompt:\n%s", out.String())
	}
}

func TestRunResendThenQuit(t *testing.T) {
	id := &scriptedIdentity{status: entity.ExistenceStatusRegistered}
	flow := newTestFlow(t, id, session.NewMemory())

	script := "farmer@example.com\nr\nq\n"
	var out strings.Builder

	term := NewTerminal(flow, strings.NewReader(script), &out)
	if err := term.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if id.sends != 2 {
		t.Fatalf("sends = %d, want initial + resend", id.sends)
	}
	if flow.Mode() != entity.ModeClosed {
		t.Fatalf("mode = %v, want Closed", flow.Mode())
	}
}

func TestRunEOFDismissesFlow(t *testing.T) {
	flow := newTestFlow(t, &scriptedIdentity{status: entity.ExistenceStatusRegistered}, session.NewMemory())

	term := NewTerminal(flow, strings.NewReader(""), &strings.Builder{})
	if err := term.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if flow.Mode() != entity.ModeClosed {
		t.Fatalf("mode = %v, want Closed", flow.Mode())
	}
}
