package model

import "time"

// RefreshToken is refresh token model entity
type RefreshToken struct {
	ID          string
	UserID      string
	Fingerprint string
	ExpiresIn   int
	CreatedAt   time.Time
}

// Expired reports whether token lifetime is over at provided moment
func (r *RefreshToken) Expired(at time.Time) bool {
	return r.CreatedAt.Add(time.Duration(r.ExpiresIn) * time.Second).Before(at)
}
