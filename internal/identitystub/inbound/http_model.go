package inbound

type CheckRequest struct {
	Email string `json:"email"`
}

type CheckResponse struct {
	Status string `json:"status"`
}

func (CheckResponse) Message() string { return "Existence check complete" }

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RegisterResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (RegisterResponse) Message() string { return "Account created" }

type SendCodeRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Role  string `json:"role"`
}

type VerifyCodeUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type VerifyCodeResponse struct {
	Token string         `json:"token"`
	User  VerifyCodeUser `json:"user"`
}

func (VerifyCodeResponse) Message() string { return "Code verified" }
