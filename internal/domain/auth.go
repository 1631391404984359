package domain

import "time"

// SubjectType identifies who a token was issued to.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Admin is the single operator allowed to manage employees.
type Admin struct {
	Email string
}

// Token represents issued access token metadata.
type Token struct {
	Value     string
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
