package sessions

import "time"

// Session is a refresh-token session issued at login. The refresh JWT
// carries the session id as its jti claim.
type Session struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	TokenID   string    `bson:"tokenId" json:"tokenId"`
	UserID    string    `bson:"userId" json:"userId"`
	UserAgent string    `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
