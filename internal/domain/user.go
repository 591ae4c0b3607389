package domain

import "time"

// User is an operator account administered from the console.
type User struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email" validate:"required,email"`
	FirstName string    `json:"firstName" validate:"required"`
	LastName  string    `json:"lastName"`
	RoleID    int64     `json:"roleId" validate:"required"`
	RoleName  string    `json:"roleName,omitempty"`
	AgencyID  *int64    `json:"agencyId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}
