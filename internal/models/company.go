package models

import (
	"time"
)

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Industry  string    `gorm:"size:50" json:"industry"`
	Size      string    `gorm:"size:20;default:'medium'" json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Employees []User    `gorm:"foreignKey:CompanyID" json:"employees,omitempty"`
	Projects  []Project `gorm:"foreignKey:CompanyID" json:"projects,omitempty"`
}
