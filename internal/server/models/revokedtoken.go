package models

import "time"

// RevokedToken is an entry in the revocation ledger. Once a token value is
// recorded here it never authorizes a request again, expired or not.
type RevokedToken struct {
	Token     string
	UserID    string
	RevokedAt time.Time
}
