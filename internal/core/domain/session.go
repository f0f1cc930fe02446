package domain

import "time"

// SessionData is what a session token resolves to. Created once at login and
// read on every subsequent request; never mutated.
type SessionData struct {
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"-"`
}
