// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// WHY PLAINTEXT PASSWORD?
// This application is a deliberately vulnerable training target. Passwords
// are stored exactly as submitted and compared with ==. Do not copy this
// into anything real — the point of the exercise is that a learner can dump
// the users table and read every credential.
//
// WHY CreatedAt int64 AND NOT time.Time?
// The schema stores a bare year (default 2020), not a timestamp. Callers
// supply whatever integer they like and nothing validates it.
type User struct {
	ID        int64  `json:"id"        db:"id"`
	Name      string `json:"name"      db:"name"` // unique, case-sensitive
	Password  string `json:"-"         db:"password"`
	Bio       string `json:"bio"       db:"bio"` // optional, empty when unset
	CreatedAt int64  `json:"createdAt" db:"created_at"`
}
