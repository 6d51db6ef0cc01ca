package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleAdmin = "admin"

	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role     string             `bson:"role" json:"role"`
}
