package otp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for time-based code operations.
type OTP interface {
	// SecretFor derives the stable per-account secret.
	SecretFor(account string) string
	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	seed   []byte
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance.
//
// seed is the server secret that per-account secrets are derived from. If
// period is 0, a 5-minute period is used, which suits emailed codes better
// than the authenticator-app default of 30 seconds.
func NewTOTP(seed string, period, skew uint) *TOTP {
	if period == 0 {
		period = 300
	}

	if skew == 0 {
		skew = 1
	}

	return &TOTP{
		seed:   []byte(seed),
		period: period,
		skew:   skew,
		digits: otp.DigitsSix,
	}
}

// SecretFor derives the per-account secret from the server seed.
func (o *TOTP) SecretFor(account string) string {
	h := hmac.New(sha256.New, o.seed)
	h.Write([]byte(account))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(h.Sum(nil)[:20])
}

// GenerateCode creates a code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}
