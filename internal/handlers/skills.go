package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/models"
)

type SkillHandler struct{}

func NewSkillHandler() *SkillHandler {
	return &SkillHandler{}
}

// ListSkills returns all skills, optionally filtered by category
func (h *SkillHandler) ListSkills(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("name")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var skills []models.Skill
	if err := query.Find(&skills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch skills"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// CreateSkillRequest represents skill creation input
type CreateSkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CreateSkill creates a new skill (admin only). Name uniqueness is
// enforced by the database index.
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill := models.Skill{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}

	db := database.GetDB()
	if err := db.Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Skill already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create skill"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Skill created successfully",
		"skill":   skill,
	})
}

// GetSkill returns one skill by ID
func (h *SkillHandler) GetSkill(c *gin.Context) {
	skillID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill ID"})
		return
	}

	db := database.GetDB()

	var skill models.Skill
	if err := db.First(&skill, skillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skill": skill})
}

// UpdateSkillRequest represents skill update input
type UpdateSkillRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// UpdateSkill updates a skill (admin only)
func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	skillID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill ID"})
		return
	}

	db := database.GetDB()

	var skill models.Skill
	if err := db.First(&skill, skillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	var req UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		skill.Name = *req.Name
	}
	if req.Category != nil {
		skill.Category = *req.Category
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}

	if err := db.Save(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Skill already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update skill"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skill updated successfully",
		"skill":   skill,
	})
}

// DeleteSkill deletes a skill (admin only)
func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	skillID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill ID"})
		return
	}

	db := database.GetDB()

	var skill models.Skill
	if err := db.First(&skill, skillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	if err := db.Delete(&skill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete skill"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully"})
}
