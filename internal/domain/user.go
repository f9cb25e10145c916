package domain

import "time"

// Role differentiates resident students from facility staff and admins.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// IsStaff reports whether the role carries staff-level access.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is the domain model for residents and facility staff.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Hostel       string
	Block        string
	RoomNumber   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
