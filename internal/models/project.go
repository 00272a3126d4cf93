package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

// ValidProjectStatus reports whether s is one of the known statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Project struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	StartDate   *time.Time    `json:"-"`
	EndDate     *time.Time    `json:"-"`
	Status      ProjectStatus `gorm:"type:varchar(20);default:'planning'" json:"status"`
	CompanyID   *uint         `gorm:"index" json:"company_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Company *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Skills  []ProjectSkill  `gorm:"foreignKey:ProjectID" json:"skills,omitempty"`
}

type ProjectResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartDate   *string       `json:"start_date"`
	EndDate     *string       `json:"end_date"`
	Status      ProjectStatus `json:"status"`
	CompanyID   *uint         `json:"company_id"`
	MemberCount int           `json:"member_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToResponse expects Members to be preloaded when member_count matters.
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   FormatDate(p.StartDate),
		EndDate:     FormatDate(p.EndDate),
		Status:      p.Status,
		CompanyID:   p.CompanyID,
		MemberCount: len(p.Members),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectMember links a user to a project they staff.
type ProjectMember struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	ProjectID            uint       `gorm:"not null;uniqueIndex:idx_project_member" json:"project_id"`
	UserID               uint       `gorm:"not null;uniqueIndex:idx_project_member" json:"user_id"`
	Role                 string     `gorm:"size:50" json:"role"` // Developer, Designer, Manager, ...
	AllocationPercentage int        `gorm:"default:100" json:"allocation_percentage"`
	JoinedDate           *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
}

type ProjectMemberResponse struct {
	ID                   uint      `json:"id"`
	ProjectID            uint      `json:"project_id"`
	UserID               uint      `json:"user_id"`
	Username             string    `json:"username"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	Role                 string    `json:"role"`
	AllocationPercentage int       `json:"allocation_percentage"`
	JoinedDate           *string   `json:"joined_date"`
	CreatedAt            time.Time `json:"created_at"`
}

func (pm *ProjectMember) ToResponse() ProjectMemberResponse {
	resp := ProjectMemberResponse{
		ID:                   pm.ID,
		ProjectID:            pm.ProjectID,
		UserID:               pm.UserID,
		Role:                 pm.Role,
		AllocationPercentage: pm.AllocationPercentage,
		JoinedDate:           FormatDate(pm.JoinedDate),
		CreatedAt:            pm.CreatedAt,
	}
	if pm.User != nil {
		resp.Username = pm.User.Username
		resp.FirstName = pm.User.FirstName
		resp.LastName = pm.User.LastName
	}
	return resp
}

// ProjectSkill records a skill a project requires.
type ProjectSkill struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProjectID       uint      `gorm:"not null;uniqueIndex:idx_project_skill" json:"project_id"`
	SkillID         uint      `gorm:"not null;uniqueIndex:idx_project_skill" json:"skill_id"`
	ImportanceLevel int       `gorm:"default:3" json:"importance_level"` // 1-5
	CreatedAt       time.Time `json:"created_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
	Skill   *Skill   `gorm:"foreignKey:SkillID" json:"-"`
}

type ProjectSkillResponse struct {
	ID              uint      `json:"id"`
	ProjectID       uint      `json:"project_id"`
	SkillID         uint      `json:"skill_id"`
	SkillName       string    `json:"skill_name"`
	ImportanceLevel int       `json:"importance_level"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ps *ProjectSkill) ToResponse() ProjectSkillResponse {
	resp := ProjectSkillResponse{
		ID:              ps.ID,
		ProjectID:       ps.ProjectID,
		SkillID:         ps.SkillID,
		ImportanceLevel: ps.ImportanceLevel,
		CreatedAt:       ps.CreatedAt,
	}
	if ps.Skill != nil {
		resp.SkillName = ps.Skill.Name
	}
	return resp
}
