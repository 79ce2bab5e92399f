// Package identitystub is a self-contained identity service for local
// development: it backs the authentication flow with an in-process user
// directory and emailed (or logged) verification codes.
package identitystub

import (
	"context"
	"errors"

	"github.com/harvestlink/farmgate/internal/identitystub/inbound"
	"github.com/harvestlink/farmgate/internal/identitystub/store"
	"github.com/harvestlink/farmgate/internal/identitystub/usecase"
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
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`

	// CacheConn is only needed when the code store driver is "redis".
	CacheConn *redis.Client

	// Mail is optional; without it issued codes go to the log.
	Mail mail.Mail
}

// New wires the stub's endpoints onto the router.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	var codes store.Codes
	switch dep.Config.GetString("modules.identitystub.code_store") {
	case "redis":
		if dep.CacheConn == nil {
			return errors.New("identitystub: code_store is redis but no redis client was provided")
		}
		codes = store.NewRedisCodes(dep.CacheConn)

	default:
		mem := store.NewMemoryCodes(dep.Clock)
		mem.StartSweeper(ctx, dep.Goroutine, dep.Config.GetMinute("modules.identitystub.sweep_interval_minutes"))
		codes = mem
	}

	uc := usecase.New(usecase.Dependency{
		Users:      store.NewUsers(dep.UID),
		Codes:      codes,
		HMAC:       dep.HMAC,
		JWT:        dep.JWT,
		Totp:       dep.Totp,
		Mail:       dep.Mail,
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		CodeMode:   usecase.CodeMode(dep.Config.GetString("modules.identitystub.code_mode")),
		CodeTTL:    dep.Config.GetMinute("modules.identitystub.code_ttl_minutes"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	return nil
}
