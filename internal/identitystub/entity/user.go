package entity

import "time"

// User is an account held by the development identity service.
type User struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	Role      string
	CreatedAt time.Time
}
