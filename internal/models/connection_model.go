package models

import "time"

// LinkedInConnection holds the OAuth tokens for a user's linked account.
// AccessToken is stored AES-GCM encrypted.
type LinkedInConnection struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	LinkedInMemberID string    `db:"linkedin_member_id" json:"linkedin_member_id"`
	AccessToken      string    `db:"access_token" json:"-"`
	ExpiresAt        time.Time `db:"expires_at" json:"expires_at"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
