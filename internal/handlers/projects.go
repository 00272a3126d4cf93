package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/internal/analysis"
	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/models"
)

type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// ListProjects returns projects, optionally filtered by company and status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	db := database.GetDB()

	query := db.Preload("Members").Order("created_at DESC")
	if companyID := c.Query("company_id"); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, projects[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"projects": responses})
}

// CreateProjectRequest represents project creation input
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CompanyID   uint   `json:"company_id" binding:"required"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// CreateProject creates a new project (admin or manager)
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var company models.Company
	if err := db.First(&company, req.CompanyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	status := models.ProjectStatus(req.Status)
	if req.Status == "" {
		status = models.ProjectStatusPlanning
	} else if !models.ValidProjectStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}

	startDate, err := models.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := models.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}

	companyID := req.CompanyID
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   &companyID,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := db.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project.ToResponse(),
	})
}

// GetProject returns one project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// UpdateProjectRequest represents project update input
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// UpdateProject updates a project (admin or manager)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !models.ValidProjectStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
			return
		}
		project.Status = status
	}
	if req.StartDate != nil {
		startDate, err := models.ParseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
			return
		}
		project.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := models.ParseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
			return
		}
		project.EndDate = endDate
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}

	db := database.GetDB()
	if err := db.Save(project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": project.ToResponse(),
	})
}

// DeleteProject deletes a project and its associations (admin or manager)
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectSkill{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetProjectMembers returns a project's members with user details
func (h *ProjectHandler) GetProjectMembers(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	db := database.GetDB()

	var memberships []models.ProjectMember
	if err := db.Preload("User").Where("project_id = ?", project.ID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project members"})
		return
	}

	responses := make([]models.ProjectMemberResponse, 0, len(memberships))
	for i := range memberships {
		responses = append(responses, memberships[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"members": responses})
}

// AddProjectMemberRequest represents input for adding a project member
type AddProjectMemberRequest struct {
	UserID               uint   `json:"user_id" binding:"required"`
	Role                 string `json:"role"`
	AllocationPercentage *int   `json:"allocation_percentage" binding:"omitempty,min=0,max=100"`
	JoinedDate           string `json:"joined_date"`
}

// AddProjectMember adds a user to a project (admin or manager)
func (h *ProjectHandler) AddProjectMember(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	var req AddProjectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	joinedDate, err := models.ParseDate(req.JoinedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid joined_date, expected YYYY-MM-DD"})
		return
	}
	if joinedDate == nil {
		today := time.Now().Truncate(24 * time.Hour)
		joinedDate = &today
	}

	allocation := 100
	if req.AllocationPercentage != nil {
		allocation = *req.AllocationPercentage
	}

	membership := models.ProjectMember{
		ProjectID:            project.ID,
		UserID:               req.UserID,
		Role:                 req.Role,
		AllocationPercentage: allocation,
		JoinedDate:           joinedDate,
	}

	if err := db.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this project"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add project member"})
		return
	}

	membership.User = &user
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Project member added successfully",
		"membership": membership.ToResponse(),
	})
}

// RemoveProjectMember removes a membership from a project (admin or manager)
func (h *ProjectHandler) RemoveProjectMember(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	membershipID, err := parseIDParam(c, "memberID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return
	}

	db := database.GetDB()

	var membership models.ProjectMember
	if err := db.First(&membership, membershipID).Error; err != nil || membership.ProjectID != project.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project membership not found"})
		return
	}

	if err := db.Delete(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove project member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project member removed successfully"})
}

// GetProjectSkills returns the skills a project requires
func (h *ProjectHandler) GetProjectSkills(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	db := database.GetDB()

	var projectSkills []models.ProjectSkill
	if err := db.Preload("Skill").Where("project_id = ?", project.ID).Find(&projectSkills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project skills"})
		return
	}

	responses := make([]models.ProjectSkillResponse, 0, len(projectSkills))
	for i := range projectSkills {
		responses = append(responses, projectSkills[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"project_skills": responses})
}

// AddProjectSkillRequest represents input for adding a required skill
type AddProjectSkillRequest struct {
	SkillID         uint `json:"skill_id" binding:"required"`
	ImportanceLevel int  `json:"importance_level" binding:"omitempty,min=1,max=5"`
}

// AddProjectSkill records a required skill for a project (admin or manager)
func (h *ProjectHandler) AddProjectSkill(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	var req AddProjectSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var skill models.Skill
	if err := db.First(&skill, req.SkillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	if req.ImportanceLevel == 0 {
		req.ImportanceLevel = 3
	}

	projectSkill := models.ProjectSkill{
		ProjectID:       project.ID,
		SkillID:         req.SkillID,
		ImportanceLevel: req.ImportanceLevel,
	}

	if err := db.Create(&projectSkill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Project already has this skill"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add project skill"})
		return
	}

	projectSkill.Skill = &skill
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Project skill added successfully",
		"project_skill": projectSkill.ToResponse(),
	})
}

// AnalyzeSkillGap scores each required skill of a project against the
// skills held by its current members.
func (h *ProjectHandler) AnalyzeSkillGap(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	db := database.GetDB()

	var projectSkills []models.ProjectSkill
	if err := db.Preload("Skill").Where("project_id = ?", project.ID).Find(&projectSkills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project skills"})
		return
	}

	var memberships []models.ProjectMember
	if err := db.Where("project_id = ?", project.ID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project members"})
		return
	}

	var memberSkills []analysis.MemberSkill
	if len(memberships) > 0 {
		memberIDs := make([]uint, 0, len(memberships))
		for _, m := range memberships {
			memberIDs = append(memberIDs, m.UserID)
		}

		var userSkills []models.UserSkill
		if err := db.Where("user_id IN ?", memberIDs).Find(&userSkills).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch member skills"})
			return
		}
		for _, us := range userSkills {
			memberSkills = append(memberSkills, analysis.MemberSkill{
				SkillID:          us.SkillID,
				ProficiencyLevel: us.ProficiencyLevel,
			})
		}
	}

	required := make([]analysis.RequiredSkill, 0, len(projectSkills))
	for _, ps := range projectSkills {
		req := analysis.RequiredSkill{
			SkillID:         ps.SkillID,
			ImportanceLevel: ps.ImportanceLevel,
		}
		if ps.Skill != nil {
			req.SkillName = ps.Skill.Name
		}
		required = append(required, req)
	}

	gaps := analysis.Analyze(required, memberSkills, len(memberships))

	c.JSON(http.StatusOK, gin.H{
		"project_id":   project.ID,
		"project_name": project.Name,
		"skill_gap":    gaps,
	})
}

// loadProject fetches the project named by the :id path parameter,
// writing the error response itself on failure.
func (h *ProjectHandler) loadProject(c *gin.Context) (*models.Project, bool) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return nil, false
	}

	db := database.GetDB()

	var project models.Project
	if err := db.Preload("Members").First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}

	return &project, true
}
