// Package usecase implements the development identity service: existence
// checks, registration, and emailed one-time codes exchanged for tokens.
package usecase

import (
	"context"
	"time"

	"github.com/harvestlink/farmgate/internal/identitystub/entity"
	"github.com/harvestlink/farmgate/internal/identitystub/store"
	"github.com/harvestlink/farmgate/internal/pkg/clock"
	"github.com/harvestlink/farmgate/internal/pkg/hash"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/jwt"
	"github.com/harvestlink/farmgate/internal/pkg/mail"
	"github.com/harvestlink/farmgate/internal/pkg/otp"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// CodeMode selects how verification codes are produced.
type CodeMode string

const (
	// CodeModeRandom issues a random code and stores its digest with a TTL.
	CodeModeRandom CodeMode = "random"

	// CodeModeTOTP derives the code from a per-email secret; nothing is
	// stored and the "current" code survives stub restarts.
	CodeModeTOTP CodeMode = "totp"
)

const defaultCodeTTL = 5 * time.Minute

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user entity.User) (*entity.User, error)
}

type Usecase struct {
	users     userStore
	codes     store.Codes
	hmac      hash.Hash
	jwt       jwt.JWT
	totp      otp.OTP
	mail      mail.Mail
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
	mode      CodeMode
	codeTTL   time.Duration
}

type Dependency struct {
	Users     userStore
	Codes     store.Codes
	HMAC      hash.Hash
	JWT       jwt.JWT
	Totp      otp.OTP
	Mail      mail.Mail // nil means codes are only logged
	Validator validator.Validator
	Clock     clock.Clocker
	Instrument instrument.Instrumentation
	CodeMode  CodeMode
	CodeTTL   time.Duration
}

func New(dep Dependency) *Usecase {
	mode := dep.CodeMode
	if mode != CodeModeTOTP {
		mode = CodeModeRandom
	}

	ttl := dep.CodeTTL
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}

	return &Usecase{
		users:     dep.Users,
		codes:     dep.Codes,
		hmac:      dep.HMAC,
		jwt:       dep.JWT,
		totp:      dep.Totp,
		mail:      dep.Mail,
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		mode:      mode,
		codeTTL:   ttl,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identitystub.usecase").Start(ctx, name)
}
