package dto

import "time"

type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UserOutput struct {
	ID       string
	Username string
	Email    string
}

type SessionOutput struct {
	Authenticated bool
	User          UserOutput
	ExpiresAt     time.Time
	Expired       bool
}
