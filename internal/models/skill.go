package models

import (
	"time"
)

type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Category    string    `gorm:"size:50" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Users    []UserSkill    `gorm:"foreignKey:SkillID" json:"users,omitempty"`
	Projects []ProjectSkill `gorm:"foreignKey:SkillID" json:"projects,omitempty"`
}

// UserSkill links a user to a skill they hold. The composite unique
// index makes the storage engine the authority on pair uniqueness, so
// two concurrent inserts of the same pair cannot both succeed.
type UserSkill struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;uniqueIndex:idx_user_skill" json:"user_id"`
	SkillID           uint       `gorm:"not null;uniqueIndex:idx_user_skill" json:"skill_id"`
	ProficiencyLevel  int        `gorm:"default:1" json:"proficiency_level"` // 1-5
	YearsExperience   float64    `json:"years_experience"`
	IsCertified       bool       `gorm:"default:false" json:"is_certified"`
	CertificationName string     `gorm:"size:100" json:"certification_name"`
	CertificationDate *time.Time `json:"-"`
	LastUsed          *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Skill *Skill `gorm:"foreignKey:SkillID" json:"-"`
}

type UserSkillResponse struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	SkillID           uint      `json:"skill_id"`
	SkillName         string    `json:"skill_name"`
	ProficiencyLevel  int       `json:"proficiency_level"`
	YearsExperience   float64   `json:"years_experience"`
	IsCertified       bool      `json:"is_certified"`
	CertificationName string    `json:"certification_name"`
	CertificationDate *string   `json:"certification_date"`
	LastUsed          *string   `json:"last_used"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (us *UserSkill) ToResponse() UserSkillResponse {
	resp := UserSkillResponse{
		ID:                us.ID,
		UserID:            us.UserID,
		SkillID:           us.SkillID,
		ProficiencyLevel:  us.ProficiencyLevel,
		YearsExperience:   us.YearsExperience,
		IsCertified:       us.IsCertified,
		CertificationName: us.CertificationName,
		CertificationDate: FormatDate(us.CertificationDate),
		LastUsed:          FormatDate(us.LastUsed),
		CreatedAt:         us.CreatedAt,
		UpdatedAt:         us.UpdatedAt,
	}
	if us.Skill != nil {
		resp.SkillName = us.Skill.Name
	}
	return resp
}
