package controllers

import (
	"net/http"
	"time"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	TenantName string `json:"tenantName" binding:"required,min=2"`
	CNPJ       string `json:"cnpj" binding:"required"`
	Phone      string `json:"phone" binding:"required"`

	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	UserName string `json:"userName" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a workshop tenant and its OWNER user in one transaction.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateCNPJ(input.CNPJ) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid CNPJ. Use the XX.XXX.XXX/XXXX-XX format")
		return
	}

	var existingTenant models.Tenant
	if err := config.DB.Where("cnpj = ?", input.CNPJ).First(&existingTenant).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "CNPJ already registered")
		return
	} else if !utils.IsNotFound(err) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var existingUser models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !utils.IsNotFound(err) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	tenant := models.Tenant{
		Name:         input.TenantName,
		CNPJ:         input.CNPJ,
		Phone:        input.Phone,
		Email:        input.Email,
		Street:       input.Street,
		Number:       input.Number,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		IsActive:     true,
	}
	user := models.User{
		Email:    input.Email,
		Password: hashed,
		Name:     input.UserName,
		Phone:    input.Phone,
		Role:     models.RoleOwner,
		IsActive: true,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register workshop")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), tenant.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
		"tenant": gin.H{
			"id":   tenant.ID,
			"name": tenant.Name,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	result := config.DB.Where("email = ? AND is_active = ?", input.Email, true).First(&user)
	if result.Error != nil {
		if utils.IsNotFound(result.Error) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login_at", &now)

	token, err := utils.GenerateToken(user.ID.String(), user.TenantID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	var tenant models.Tenant
	config.DB.First(&tenant, "id = ?", user.TenantID)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
			"tenant": gin.H{
				"id":   tenant.ID,
				"name": tenant.Name,
			},
		},
	})
}

func Me(c *gin.Context) {
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Tenant").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
