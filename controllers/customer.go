package controllers

import (
	"net/http"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name     string  `json:"name" binding:"required,min=2"`
	CpfCnpj  *string `json:"cpfCnpj"`
	Email    string  `json:"email" binding:"omitempty,email"`
	Phone    string  `json:"phone" binding:"required"`
	Whatsapp string  `json:"whatsapp"`

	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	Notes string `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name     *string `json:"name"`
	CpfCnpj  *string `json:"cpfCnpj"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Whatsapp *string `json:"whatsapp"`

	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zipCode"`

	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateCustomer creates a new customer for the workshop
func CreateCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CpfCnpj != nil && *input.CpfCnpj != "" {
		if !utils.ValidateCpfCnpj(*input.CpfCnpj) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid CPF/CNPJ format")
			return
		}

		// Tax IDs are unique per workshop, not globally.
		var existingCustomer models.Customer
		if err := config.DB.Where("tenant_id = ? AND cpf_cnpj = ?", tenantID, *input.CpfCnpj).
			First(&existingCustomer).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this CPF/CNPJ already exists")
			return
		} else if !utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	customer := models.Customer{
		TenantID:     tenantID,
		Name:         input.Name,
		CpfCnpj:      input.CpfCnpj,
		Email:        input.Email,
		Phone:        input.Phone,
		Whatsapp:     input.Whatsapp,
		Street:       input.Street,
		Number:       input.Number,
		Complement:   input.Complement,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Notes:        input.Notes,
		IsActive:     true,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves the workshop's active customers, optionally
// filtered by a search term over name, phone and CPF/CNPJ.
func GetCustomers(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	query := config.DB.Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ? OR cpf_cnpj LIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := query.Preload("Vehicles").Order("name asc").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, customerUUID, true).
		Preload("Vehicles").
		First(&customer).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, customerUUID, true).
		First(&customer).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CpfCnpj != nil && *input.CpfCnpj != "" {
		if !utils.ValidateCpfCnpj(*input.CpfCnpj) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid CPF/CNPJ format")
			return
		}

		if customer.CpfCnpj == nil || *customer.CpfCnpj != *input.CpfCnpj {
			var existingCustomer models.Customer
			if err := config.DB.Where("tenant_id = ? AND cpf_cnpj = ? AND id <> ?", tenantID, *input.CpfCnpj, customerUUID).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this CPF/CNPJ already exists")
				return
			} else if !utils.IsNotFound(err) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.CpfCnpj = input.CpfCnpj
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Whatsapp != nil {
		customer.Whatsapp = *input.Whatsapp
	}
	if input.Street != nil {
		customer.Street = *input.Street
	}
	if input.Number != nil {
		customer.Number = *input.Number
	}
	if input.Complement != nil {
		customer.Complement = *input.Complement
	}
	if input.Neighborhood != nil {
		customer.Neighborhood = *input.Neighborhood
	}
	if input.City != nil {
		customer.City = *input.City
	}
	if input.State != nil {
		customer.State = *input.State
	}
	if input.ZipCode != nil {
		customer.ZipCode = *input.ZipCode
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, customerUUID, true).
		First(&customer).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	customer.IsActive = false
	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if err := config.DB.Delete(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
