package controllers

import (
	"net/http"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=OWNER MANAGER MECHANIC RECEPTIONIST"`
}

type UpdateUserInput struct {
	Email  *string `json:"email" binding:"omitempty,email"`
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
	Role   *string `json:"role" binding:"omitempty,oneof=OWNER MANAGER MECHANIC RECEPTIONIST"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=6"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// GetUsers lists the tenant's active users.
func GetUsers(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var users []models.User
	if err := config.DB.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name asc").
		Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var user models.User
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, userUUID, true).
		First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser enforces the role hierarchy and the plan's user limit.
func CreateUser(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	creatorRole := utils.Role(c)

	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Role == "" {
		input.Role = models.RoleMechanic
	}

	if creatorRole == models.RoleMechanic || creatorRole == models.RoleReceptionist {
		utils.RespondWithError(c, http.StatusForbidden, "You are not allowed to create users")
		return
	}
	if input.Role == models.RoleOwner && creatorRole != models.RoleOwner {
		utils.RespondWithError(c, http.StatusForbidden, "Only owners can create other owners")
		return
	}

	var existingUser models.User
	if err := config.DB.Where("tenant_id = ? AND email = ?", tenantID, input.Email).
		First(&existingUser).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered in this workshop")
		return
	} else if !utils.IsNotFound(err) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var tenant models.Tenant
	if err := config.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var activeUsers int64
	if err := config.DB.Model(&models.User{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&activeUsers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if activeUsers >= int64(tenant.MaxUsers) {
		utils.RespondWithError(c, http.StatusForbidden, "User limit reached for the current plan")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		TenantID: tenantID,
		Email:    input.Email,
		Password: hashed,
		Name:     input.Name,
		Phone:    input.Phone,
		Role:     input.Role,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func UpdateUser(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, userUUID, true).
		First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Email != nil && *input.Email != user.Email {
		var existingUser models.User
		if err := config.DB.Where("tenant_id = ? AND email = ? AND id <> ?", tenantID, *input.Email, userUUID).
			First(&existingUser).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered in this workshop")
			return
		} else if !utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser soft deletes; users cannot delete themselves.
func DeleteUser(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	requesterID, ok := utils.UserID(c)
	if !ok {
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if userUUID == requesterID {
		utils.RespondWithError(c, http.StatusForbidden, "You cannot delete your own account")
		return
	}

	var user models.User
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, userUUID, true).
		First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	user.IsActive = false
	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if err := config.DB.Delete(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetProfile returns the authenticated user with their workshop.
func GetProfile(c *gin.Context) {
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Tenant").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	// Users cannot change their own role.
	input.Role = nil

	var user models.User
	if err := config.DB.Where("tenant_id = ? AND id = ?", tenantID, userID).First(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.Email != nil && *input.Email != user.Email {
		var existingUser models.User
		if err := config.DB.Where("tenant_id = ? AND email = ? AND id <> ?", tenantID, *input.Email, userID).
			First(&existingUser).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered in this workshop")
			return
		} else if !utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func ChangeMyPassword(c *gin.Context) {
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("tenant_id = ? AND id = ?", tenantID, userID).First(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
