package controllers

import (
	"io"
	"net/http"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20 // 10 MB

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type CreateVehicleInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	Plate      string    `json:"plate" binding:"required"`
	Chassi     string    `json:"chassi"`
	Renavam    string    `json:"renavam"`

	Brand     string `json:"brand" binding:"required"`
	Model     string `json:"model" binding:"required"`
	Version   string `json:"version"`
	Year      int    `json:"year" binding:"required,min=1900,max=2100"`
	ModelYear int    `json:"modelYear" binding:"omitempty,min=1900,max=2100"`
	Color     string `json:"color"`

	FuelType     string `json:"fuelType" binding:"omitempty,oneof=FLEX GASOLINE ETHANOL DIESEL ELECTRIC HYBRID"`
	Transmission string `json:"transmission" binding:"omitempty,oneof=MANUAL AUTOMATIC CVT AUTOMATED"`
	Engine       string `json:"engine"`

	Mileage int    `json:"mileage" binding:"omitempty,min=0"`
	Notes   string `json:"notes"`
}

type UpdateVehicleInput struct {
	CustomerID *uuid.UUID `json:"customerId"`
	Plate      *string    `json:"plate"`
	Chassi     *string    `json:"chassi"`
	Renavam    *string    `json:"renavam"`

	Brand     *string `json:"brand"`
	Model     *string `json:"model"`
	Version   *string `json:"version"`
	Year      *int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	ModelYear *int    `json:"modelYear" binding:"omitempty,min=1900,max=2100"`
	Color     *string `json:"color"`

	FuelType     *string `json:"fuelType" binding:"omitempty,oneof=FLEX GASOLINE ETHANOL DIESEL ELECTRIC HYBRID"`
	Transmission *string `json:"transmission" binding:"omitempty,oneof=MANUAL AUTOMATIC CVT AUTOMATED"`
	Engine       *string `json:"engine"`

	Mileage  *int    `json:"mileage" binding:"omitempty,min=0"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateVehicle registers a vehicle for a customer of the workshop.
func CreateVehicle(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePlate(input.Plate) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate. Use ABC-1234 or ABC1D23 (Mercosul)")
		return
	}
	plate := utils.NormalizePlate(input.Plate)

	// Customer must belong to the same workshop.
	var customer models.Customer
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, input.CustomerID, true).
		First(&customer).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var existingVehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND plate = ?", tenantID, plate).
		First(&existingVehicle).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle with this plate already exists")
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
	var activeVehicles int64
	if err := config.DB.Model(&models.Vehicle{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&activeVehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if activeVehicles >= int64(tenant.MaxVehicles) {
		utils.RespondWithError(c, http.StatusForbidden, "Vehicle limit reached for the current plan")
		return
	}

	vehicle := models.Vehicle{
		TenantID:   tenantID,
		CustomerID: input.CustomerID,
		Plate:      plate,
		Chassi:     input.Chassi,
		Renavam:    input.Renavam,
		Brand:      input.Brand,
		Model:      input.Model,
		Version:    input.Version,
		Year:       input.Year,
		ModelYear:  input.ModelYear,
		Color:      input.Color,
		Engine:     input.Engine,
		Mileage:    input.Mileage,
		Notes:      input.Notes,
		IsActive:   true,
	}
	if input.FuelType != "" {
		vehicle.FuelType = input.FuelType
	}
	if input.Transmission != "" {
		vehicle.Transmission = input.Transmission
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicles lists the workshop's active vehicles, optionally filtered by
// search (plate, brand, model) or customer.
func GetVehicles(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	query := config.DB.Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("plate ILIKE ? OR brand ILIKE ? OR model ILIKE ?", like, like, like)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var vehicles []models.Vehicle
	if err := query.Preload("Customer").Order("created_at desc").Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func GetVehicle(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, vehicleUUID, true).
		Preload("Customer").
		First(&vehicle).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// GetVehicleByPlate looks up a vehicle by its normalized plate.
func GetVehicleByPlate(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	plate := utils.NormalizePlate(c.Param("plate"))

	var vehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND plate = ? AND is_active = ?", tenantID, plate, true).
		Preload("Customer").
		First(&vehicle).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func UpdateVehicle(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, vehicleUUID, true).
		First(&vehicle).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Plate != nil {
		if !utils.ValidatePlate(*input.Plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate. Use ABC-1234 or ABC1D23 (Mercosul)")
			return
		}
		plate := utils.NormalizePlate(*input.Plate)
		if plate != vehicle.Plate {
			var existingVehicle models.Vehicle
			if err := config.DB.Where("tenant_id = ? AND plate = ? AND id <> ?", tenantID, plate, vehicleUUID).
				First(&existingVehicle).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another vehicle with this plate already exists")
				return
			} else if !utils.IsNotFound(err) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		vehicle.Plate = plate
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, *input.CustomerID, true).
			First(&customer).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			return
		}
		vehicle.CustomerID = *input.CustomerID
	}
	if input.Chassi != nil {
		vehicle.Chassi = *input.Chassi
	}
	if input.Renavam != nil {
		vehicle.Renavam = *input.Renavam
	}
	if input.Brand != nil {
		vehicle.Brand = *input.Brand
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Version != nil {
		vehicle.Version = *input.Version
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.ModelYear != nil {
		vehicle.ModelYear = *input.ModelYear
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}
	if input.FuelType != nil {
		vehicle.FuelType = *input.FuelType
	}
	if input.Transmission != nil {
		vehicle.Transmission = *input.Transmission
	}
	if input.Engine != nil {
		vehicle.Engine = *input.Engine
	}
	if input.Mileage != nil {
		vehicle.Mileage = *input.Mileage
	}
	if input.Notes != nil {
		vehicle.Notes = *input.Notes
	}
	if input.IsActive != nil {
		vehicle.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle soft deletes a vehicle.
func DeleteVehicle(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, vehicleUUID, true).
		First(&vehicle).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	vehicle.IsActive = false
	if err := config.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}
	if err := config.DB.Delete(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

// OCRPlate runs license-plate recognition on an uploaded photo.
func OCRPlate(c *gin.Context) {
	image, ok := readImageUpload(c)
	if !ok {
		return
	}

	result, err := visionService.RecognizePlate(image)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Plate recognition failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// OCRPlateAndLookup recognizes the plate and immediately looks for a
// matching vehicle in the workshop.
func OCRPlateAndLookup(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	image, ok := readImageUpload(c)
	if !ok {
		return
	}

	result, err := visionService.RecognizePlate(image)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Plate recognition failed: "+err.Error())
		return
	}

	response := gin.H{"ocr": result, "vehicle": nil}
	if result.Plate != "" {
		var vehicle models.Vehicle
		if err := config.DB.Where("tenant_id = ? AND plate = ? AND is_active = ?", tenantID, result.Plate, true).
			Preload("Customer").
			First(&vehicle).Error; err == nil {
			response["vehicle"] = vehicle
		}
	}

	c.JSON(http.StatusOK, response)
}

func readImageUpload(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return nil, false
	}
	if file.Size > maxImageSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Image exceeds the 10 MB limit")
		return nil, false
	}
	if !allowedImageMimes[file.Header.Get("Content-Type")] {
		utils.RespondWithError(c, http.StatusBadRequest, "Unsupported image format. Use jpeg, png, webp or gif")
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read image")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read image")
		return nil, false
	}
	return data, true
}
