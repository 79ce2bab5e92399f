// Package tests runs the whole authentication flow against the identity
// stub mounted on an in-process HTTP server.
package tests

import (
	"context"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/harvestlink/farmgate/internal/identitystub"
	"github.com/harvestlink/farmgate/internal/pkg/clock"
	"github.com/harvestlink/farmgate/internal/pkg/config"
	"github.com/harvestlink/farmgate/internal/pkg/goroutine"
	"github.com/harvestlink/farmgate/internal/pkg/hash"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/jwt"
	"github.com/harvestlink/farmgate/internal/pkg/mail"
	"github.com/harvestlink/farmgate/internal/pkg/otp"
	"github.com/harvestlink/farmgate/internal/pkg/router"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
)

var reCode = regexp.MustCompile(`\b(\d{6})\b`)

// mailbox captures every email the stub sends.
type mailbox struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (m *mailbox) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mailbox) Close() error { return nil }

func (m *mailbox) codeFor(t *testing.T, email string) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.msgs) - 1; i >= 0; i-- {
		for _, to := range m.msgs[i].To {
			if to != email {
				continue
			}
			if match := reCode.FindStringSubmatch(m.msgs[i].TextBody); match != nil {
				return match[1]
			}
		}
	}

	t.Fatalf("no code mailed to %s", email)
	return ""
}

const stubConfig = `
modules:
  identitystub:
    code_store: "memory"
    code_mode: "random"
    code_ttl_minutes: 5
    sweep_interval_minutes: 1
`

// startStub mounts the identity stub on an httptest server and returns its
// base URL plus the captured mailbox.
func startStub(t *testing.T) (string, *mailbox) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(stubConfig))
	if err != nil {
		t.Fatalf("config from bytes: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:    "farmgate-identitystub",
		Audiences: []string{"farmgate"},
		TTL:       time.Hour,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	snow, err := uid.NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}

	ins := instrument.NewNoop()
	rt := router.NewRouter(router.Config{
		UUID:        uid.NewUUID(),
		Instrument:  ins,
		ServiceName: "farmgate-test",
	})

	ctx, cancel := context.WithCancel(context.Background())
	gm := goroutine.NewManager(4)
	t.Cleanup(func() {
		cancel()
		gm.Wait()
	})

	box := &mailbox{}
	err = identitystub.New(ctx, identitystub.Dependency{
		Router:     rt,
		Config:     cfg,
		Instrument: ins,
		Validator:  v10,
		Clock:      clock.New(),
		Goroutine:  gm,
		UID:        snow,
		HMAC:       hash.NewHMACSHA256("test-code-secret"),
		JWT:        signer,
		Totp:       otp.NewTOTP("test-seed", 300, 1),
		Mail:       box,
	})
	if err != nil {
		t.Fatalf("identitystub.New() error = %v", err)
	}

	srv := httptest.NewServer(rt)
	t.Cleanup(srv.Close)

	return srv.URL, box
}
