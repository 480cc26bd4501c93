package controllers

import (
	"net/http"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateTenantInput struct {
	Name         *string `json:"name"`
	TradeName    *string `json:"tradeName"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zipCode"`
	Logo         *string `json:"logo"`
	PrimaryColor *string `json:"primaryColor"`

	DefaultMarkup    *float64 `json:"defaultMarkup" binding:"omitempty,min=0,max=500"`
	DefaultLaborRate *float64 `json:"defaultLaborRate" binding:"omitempty,min=0"`
}

// GetMyTenant returns the authenticated user's workshop.
func GetMyTenant(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var tenant models.Tenant
	if err := config.DB.Where("id = ? AND is_active = ?", tenantID, true).First(&tenant).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Workshop not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// UpdateMyTenant updates workshop profile and default pricing settings.
func UpdateMyTenant(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input UpdateTenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var tenant models.Tenant
	if err := config.DB.Where("id = ? AND is_active = ?", tenantID, true).First(&tenant).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Workshop not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		tenant.Name = *input.Name
	}
	if input.TradeName != nil {
		tenant.TradeName = *input.TradeName
	}
	if input.Phone != nil {
		tenant.Phone = *input.Phone
	}
	if input.Email != nil {
		tenant.Email = *input.Email
	}
	if input.Street != nil {
		tenant.Street = *input.Street
	}
	if input.Number != nil {
		tenant.Number = *input.Number
	}
	if input.Complement != nil {
		tenant.Complement = *input.Complement
	}
	if input.Neighborhood != nil {
		tenant.Neighborhood = *input.Neighborhood
	}
	if input.City != nil {
		tenant.City = *input.City
	}
	if input.State != nil {
		tenant.State = *input.State
	}
	if input.ZipCode != nil {
		tenant.ZipCode = *input.ZipCode
	}
	if input.Logo != nil {
		tenant.Logo = *input.Logo
	}
	if input.PrimaryColor != nil {
		tenant.PrimaryColor = *input.PrimaryColor
	}
	if input.DefaultMarkup != nil {
		tenant.DefaultMarkup = *input.DefaultMarkup
	}
	if input.DefaultLaborRate != nil {
		tenant.DefaultLaborRate = *input.DefaultLaborRate
	}

	if err := config.DB.Save(&tenant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update workshop")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// GetTenantStats returns headline counts for the dashboard.
func GetTenantStats(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var customers, vehicles, serviceOrders, pendingOrders int64

	if err := config.DB.Model(&models.Customer{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Vehicle{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.ServiceOrder{}).
		Where("tenant_id = ?", tenantID).
		Count(&serviceOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	pendingStatuses := []string{
		models.StatusDraft,
		models.StatusDiagnosing,
		models.StatusQuoting,
		models.StatusWaitingApproval,
	}
	if err := config.DB.Model(&models.ServiceOrder{}).
		Where("tenant_id = ? AND status IN ?", tenantID, pendingStatuses).
		Count(&pendingOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":     customers,
		"vehicles":      vehicles,
		"serviceOrders": serviceOrders,
		"pendingOrders": pendingOrders,
	})
}
