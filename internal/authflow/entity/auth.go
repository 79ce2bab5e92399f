package entity

// RoleFarmer is the only role this flow signs people in as.
const RoleFarmer = "farmer"

// User is an account as the identity service reports it.
type User struct {
	Email string
	Name  string
	Phone string
	Role  string
}

// Verified is the result of a successful code verification.
type Verified struct {
	Token string
	User  User
}

// Session is the record persisted after a successful verification and read
// back on later launches.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Authenticated reports whether the record is complete enough to treat the
// holder as signed in.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != "" && s.Name != "" && s.Email != ""
}

// Profile is the payload handed to the completion callback once the flow
// reaches the authenticated mode.
type Profile struct {
	Name  string
	Email string
	Phone string
	Role  string
}
