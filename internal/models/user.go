package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r is one of the portal roles.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleFaculty || r == RoleAdmin
}

// User is a portal account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Sub       string             `bson:"sub,omitempty" json:"sub,omitempty"` // external OIDC subject
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Public is the subset returned by login and profile endpoints.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID.Hex(), Username: u.Username, Role: u.Role}
}
