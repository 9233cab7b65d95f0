package model

import "time"

// Role specifies what user is allowed to do
type Role string

const (
	// RoleAdmin manages users and learning content
	RoleAdmin Role = "Admin"
	// RoleManager manages customers and contracts
	RoleManager Role = "Manager"
	// RoleStaff reads customers and records meetings
	RoleStaff Role = "Staff"
)

// User is user model entity
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}
