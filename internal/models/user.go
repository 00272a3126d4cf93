package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string    `gorm:"size:120" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"size:50" json:"first_name"`
	LastName     string    `gorm:"size:50" json:"last_name"`
	JobTitle     string    `gorm:"size:100" json:"job_title"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CompanyID    *uint     `gorm:"index" json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Company     *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Skills      []UserSkill     `gorm:"foreignKey:UserID" json:"skills,omitempty"`
	Memberships []ProjectMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse is a safe representation without the password hash
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	JobTitle  string    `json:"job_title"`
	Role      UserRole  `json:"role"`
	CompanyID *uint     `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		JobTitle:  u.JobTitle,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}
