package authflow

import (
	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/identity"
	"github.com/harvestlink/farmgate/internal/authflow/outbound/session"
	"github.com/harvestlink/farmgate/internal/authflow/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/config"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/harvestlink/farmgate/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Session    session.Store              `validate:"required"`

	// OnLogin is invoked once after a successful verification.
	OnLogin func(entity.Profile)
}

// New wires a fresh flow against the configured identity service.
func New(dep Dependency) (*usecase.Flow, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	client := identity.NewClient(identity.Config{
		BaseURL: dep.Config.GetString("modules.authflow.identity_base_url"),
		Timeout: dep.Config.GetSecond("modules.authflow.identity_timeout_seconds"),
	}, dep.Instrument)

	return usecase.New(usecase.Dependency{
		Identity:   client,
		Session:    dep.Session,
		Validator:  dep.Validator,
		UUID:       dep.UUID,
		Instrument: dep.Instrument,
		OnLogin:    dep.OnLogin,
	}), nil
}
