package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/models"
)

type CompanyHandler struct{}

func NewCompanyHandler() *CompanyHandler {
	return &CompanyHandler{}
}

// ListCompanies returns all companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	db := database.GetDB()

	var companies []models.Company
	if err := db.Order("name").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateCompanyRequest represents company creation input
type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
}

// CreateCompany creates a new company (admin only)
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Size == "" {
		req.Size = "medium"
	}

	company := models.Company{
		Name:     req.Name,
		Industry: req.Industry,
		Size:     req.Size,
	}

	db := database.GetDB()
	if err := db.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created successfully",
		"company": company,
	})
}

// GetCompany returns one company by ID
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	db := database.GetDB()

	var company models.Company
	if err := db.First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// UpdateCompanyRequest represents company update input
type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	Size     *string `json:"size"`
}

// UpdateCompany updates a company (admin only)
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	db := database.GetDB()

	var company models.Company
	if err := db.First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Size != nil {
		company.Size = *req.Size
	}

	if err := db.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company updated successfully",
		"company": company,
	})
}

// DeleteCompany deletes a company (admin only). Deletion is refused
// while the company still has employees.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	db := database.GetDB()

	var company models.Company
	if err := db.First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var employeeCount int64
	db.Model(&models.User{}).Where("company_id = ?", companyID).Count(&employeeCount)
	if employeeCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete company with employees"})
		return
	}

	if err := db.Delete(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
