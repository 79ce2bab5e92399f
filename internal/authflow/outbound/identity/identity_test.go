package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{BaseURL: srv.URL}, instrument.NewNoop())
}

func TestCheckExistence(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/identity/check" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "OK",
			"data":    map[string]string{"status": "registered"},
		})
	})

	st, err := c.CheckExistence(context.Background(), "farmer@example.com")
	if err != nil {
		t.Fatalf("CheckExistence() error = %v", err)
	}
	if st != entity.ExistenceStatusRegistered {
		t.Fatalf("status = %v, want registered", st)
	}
	if gotBody["email"] != "farmer@example.com" {
		t.Fatalf("request body = %v", gotBody)
	}
}

func TestRegisterReturnsUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Registered",
			"data": map[string]string{
				"email": "new@example.com",
				"name":  "New Farmer",
				"phone": "0812345678",
				"role":  "farmer",
			},
		})
	})

	user, err := c.Register(context.Background(), "new@example.com", "New Farmer", "0812345678")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	want := entity.User{Email: "new@example.com", Name: "New Farmer", Phone: "0812345678", Role: "farmer"}
	if *user != want {
		t.Fatalf("Register() = %+v, want %+v", *user, want)
	}
}

func TestSendCodeAcceptsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.SendCode(context.Background(), "farmer@example.com", "farmer", ""); err != nil {
		t.Fatalf("SendCode() error = %v", err)
	}
}

func TestVerifyCodeSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["code"] != "123456" || in["role"] != "farmer" {
			t.Errorf("request body = %v", in)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Verified",
			"data": map[string]any{
				"token": "jwt-token",
				"user": map[string]string{
					"email": "farmer@example.com",
					"name":  "Green Farmer",
					"phone": "0812345678",
					"role":  "farmer",
				},
			},
		})
	})

	v, err := c.VerifyCode(context.Background(), "farmer@example.com", "123456", "farmer")
	if err != nil {
		t.Fatalf("VerifyCode() error = %v", err)
	}
	if v.Token != "jwt-token" || v.User.Name != "Green Farmer" {
		t.Fatalf("VerifyCode() = %+v", v)
	}
}

func TestRejectionCarriesUpstreamMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Incorrect code. Please try again."})
	})

	_, err := c.VerifyCode(context.Background(), "farmer@example.com", "000000", "farmer")
	if err == nil {
		t.Fatal("VerifyCode() error = nil, want rejection")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %T is not *goerror.Error", err)
	}
	if gerr.Type() != goerror.TypeBusiness {
		t.Fatalf("type = %v, want business", gerr.Type())
	}
	if gerr.Msg() != "Incorrect code. Please try again." {
		t.Fatalf("msg = %q, want upstream message verbatim", gerr.Msg())
	}
}

func TestMessagelessFailureIsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.CheckExistence(context.Background(), "farmer@example.com")
	if err == nil {
		t.Fatal("CheckExistence() error = nil, want server error")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %T is not *goerror.Error", err)
	}
	if gerr.Type() != goerror.TypeServer {
		t.Fatalf("type = %v, want server", gerr.Type())
	}
}

func TestTransportFailureIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{BaseURL: srv.URL}, instrument.NewNoop())
	err := c.SendCode(context.Background(), "farmer@example.com", "farmer", "")
	if err == nil {
		t.Fatal("SendCode() error = nil, want transport failure")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %T is not *goerror.Error", err)
	}
	if gerr.Type() != goerror.TypeServer {
		t.Fatalf("type = %v, want server", gerr.Type())
	}
}
