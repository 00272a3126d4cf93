package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/models"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// ListUsers returns all users (admin or manager)
func (h *UserHandler) ListUsers(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("username")
	if companyID := c.Query("company_id"); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// GetUser returns one user by ID (self or admin)
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// UpdateUserRequest represents user update input. Role changes only
// take effect when the caller is an admin.
type UpdateUserRequest struct {
	Email     *string          `json:"email"`
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	JobTitle  *string          `json:"job_title"`
	Role      *models.UserRole `json:"role"`
	CompanyID *uint            `json:"company_id"`
}

// UpdateUser updates a user (self or admin)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.CompanyID != nil {
		var company models.Company
		if err := db.First(&company, *req.CompanyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		user.CompanyID = req.CompanyID
	}
	if req.Role != nil {
		callerRole, _ := c.Get("userRole")
		if callerRole != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can change roles"})
			return
		}
		if !models.ValidRole(*req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		user.Role = *req.Role
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user.ToResponse(),
	})
}

// DeleteUser deletes a user (admin only)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetUserSkills returns all skills held by a user (self or admin)
func (h *UserHandler) GetUserSkills(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()

	var userSkills []models.UserSkill
	if err := db.Preload("Skill").Where("user_id = ?", userID).Find(&userSkills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user skills"})
		return
	}

	responses := make([]models.UserSkillResponse, 0, len(userSkills))
	for i := range userSkills {
		responses = append(responses, userSkills[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"user_skills": responses})
}

// AddUserSkillRequest represents input for adding a skill to a user
type AddUserSkillRequest struct {
	SkillID           uint    `json:"skill_id" binding:"required"`
	ProficiencyLevel  int     `json:"proficiency_level" binding:"omitempty,min=1,max=5"`
	YearsExperience   float64 `json:"years_experience"`
	IsCertified       bool    `json:"is_certified"`
	CertificationName string  `json:"certification_name"`
	CertificationDate string  `json:"certification_date"`
	LastUsed          string  `json:"last_used"`
}

// AddUserSkill records a skill for a user (self or admin). The
// (user, skill) pair is unique; a second insert answers 409 whether it
// loses to this request or a concurrent one.
func (h *UserHandler) AddUserSkill(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req AddUserSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var skill models.Skill
	if err := db.First(&skill, req.SkillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	certDate, err := models.ParseDate(req.CertificationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certification_date, expected YYYY-MM-DD"})
		return
	}
	lastUsed, err := models.ParseDate(req.LastUsed)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid last_used, expected YYYY-MM-DD"})
		return
	}

	if req.ProficiencyLevel == 0 {
		req.ProficiencyLevel = 1
	}

	userSkill := models.UserSkill{
		UserID:            userID,
		SkillID:           req.SkillID,
		ProficiencyLevel:  req.ProficiencyLevel,
		YearsExperience:   req.YearsExperience,
		IsCertified:       req.IsCertified,
		CertificationName: req.CertificationName,
		CertificationDate: certDate,
		LastUsed:          lastUsed,
	}

	if err := db.Create(&userSkill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already has this skill"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user skill"})
		return
	}

	userSkill.Skill = &skill
	c.JSON(http.StatusCreated, gin.H{
		"message":    "User skill added successfully",
		"user_skill": userSkill.ToResponse(),
	})
}

// GetUserProjects returns the projects a user is a member of, with
// membership details (self or admin)
func (h *UserHandler) GetUserProjects(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()

	var memberships []models.ProjectMember
	if err := db.Preload("Project").Preload("Project.Members").Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user projects"})
		return
	}

	type userProject struct {
		models.ProjectResponse
		Role                 string  `json:"role"`
		AllocationPercentage int     `json:"allocation_percentage"`
		JoinedDate           *string `json:"joined_date"`
	}

	projects := make([]userProject, 0, len(memberships))
	for i := range memberships {
		m := &memberships[i]
		if m.Project == nil {
			continue
		}
		projects = append(projects, userProject{
			ProjectResponse:      m.Project.ToResponse(),
			Role:                 m.Role,
			AllocationPercentage: m.AllocationPercentage,
			JoinedDate:           models.FormatDate(m.JoinedDate),
		})
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
