package entity

// Mode is the step of the authentication flow currently presented to the
// farmer. It only ever advances; going back from signup to login is the one
// allowed reverse transition.
type Mode int16

const (
	// ModeUnknown is mean mode is not known / not set.
	ModeUnknown Mode = 0

	// ModeLogin collects the email address.
	ModeLogin Mode = 1

	// ModeSignup collects name and phone for an unregistered email.
	ModeSignup Mode = 2

	// ModeOTP collects the emailed verification code.
	ModeOTP Mode = 3

	// ModeAuthenticated mean the code was accepted and a session exists.
	ModeAuthenticated Mode = 4

	// ModeClosed mean the flow was dismissed; every result arriving after
	// this is discarded.
	ModeClosed Mode = 5
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "Login"
	case ModeSignup:
		return "Signup"
	case ModeOTP:
		return "OTP"
	case ModeAuthenticated:
		return "Authenticated"
	case ModeClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// ExistenceStatus is the upstream's answer to "is this email registered?".
type ExistenceStatus int16

const (
	ExistenceStatusUnknown       ExistenceStatus = 0
	ExistenceStatusRegistered    ExistenceStatus = 1
	ExistenceStatusNotRegistered ExistenceStatus = 2
)

func ExistenceStatusFromString(str string) ExistenceStatus {
	switch str {
	case "registered":
		return ExistenceStatusRegistered
	case "not_registered":
		return ExistenceStatusNotRegistered
	default:
		return ExistenceStatusUnknown
	}
}

func (es ExistenceStatus) String() string {
	switch es {
	case ExistenceStatusRegistered:
		return "registered"
	case ExistenceStatusNotRegistered:
		return "not_registered"
	default:
		return "unknown"
	}
}
