package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is an actor role. Undefined roles have no permissions.
type Role string

const (
	RoleClient     Role = "client"
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Roles lists every known role.
var Roles = []Role{RoleClient, RoleWorker, RoleAdmin, RoleSuperadmin}

// User is an admin-panel account. Password is write-only: it arrives on
// create/update payloads and is stored as a bcrypt hash in stored_password,
// which is stripped from every response.
type User struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email    string             `json:"email" bson:"email" validate:"required,email"`
	Login    string             `json:"login" bson:"login" validate:"required"`
	Role     Role               `json:"role" bson:"role" validate:"required,oneof=client worker admin superadmin"`
	Password string             `json:"password,omitempty" bson:"-"`
	// StoredPassword is the bcrypt hash; never serialized to clients.
	StoredPassword string `json:"-" bson:"stored_password,omitempty"`
}

// StoredPasswordField is the document field holding the password hash.
const StoredPasswordField = "stored_password"
