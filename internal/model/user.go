package model

import "time"

// RoleAdmin is the only role that can reach the back office.
const RoleAdmin = "ADMIN"

// User is a back-office account stored in the `users` table.  Guests who
// register for the gala never get an account; only staff do.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hashed password.
//  Role         – role name, currently always ADMIN.
//  IsActive     – disabled accounts cannot log in.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
