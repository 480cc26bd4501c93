package controllers

import (
	"errors"
	"net/http"

	"oficinapro-backend/config"
	"oficinapro-backend/models"
	"oficinapro-backend/services"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateOrderInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	VehicleID  uuid.UUID `json:"vehicleId" binding:"required"`

	MileageIn   *int     `json:"mileageIn" binding:"omitempty,min=0"`
	FuelLevel   *int     `json:"fuelLevel" binding:"omitempty,min=0,max=100"`
	EntryNotes  string   `json:"entryNotes"`
	EntryPhotos []string `json:"entryPhotos"`
}

type UpdateOrderInput struct {
	MileageOut *int     `json:"mileageOut" binding:"omitempty,min=0"`
	ExitNotes  *string  `json:"exitNotes"`
	ExitPhotos []string `json:"exitPhotos"`
	Discount   *float64 `json:"discount" binding:"omitempty,min=0"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type AddOrderItemInput struct {
	Type        string `json:"type" binding:"required,oneof=PART SERVICE"`
	Description string `json:"description" binding:"required"`
	PartNumber  string `json:"partNumber"`
	Brand       string `json:"brand"`

	Quantity  float64 `json:"quantity" binding:"omitempty,min=0"`
	UnitCost  float64 `json:"unitCost" binding:"omitempty,min=0"`
	UnitPrice float64 `json:"unitPrice" binding:"omitempty,min=0"`

	LaborHours *float64 `json:"laborHours" binding:"omitempty,min=0"`
	LaborRate  *float64 `json:"laborRate" binding:"omitempty,min=0"`
}

// CreateServiceOrder opens a new order in DRAFT for a vehicle already
// registered with the workshop.
func CreateServiceOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, input.CustomerID, true).
		First(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, input.VehicleID, true).
		First(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Vehicle not found")
		return
	}
	if vehicle.CustomerID != input.CustomerID {
		utils.RespondWithError(c, http.StatusBadRequest, "Vehicle does not belong to this customer")
		return
	}

	order := models.ServiceOrder{
		TenantID:    tenantID,
		CustomerID:  input.CustomerID,
		VehicleID:   input.VehicleID,
		CreatedByID: userID,
		MileageIn:   input.MileageIn,
		FuelLevel:   input.FuelLevel,
		EntryNotes:  input.EntryNotes,
		EntryPhotos: input.EntryPhotos,
	}

	if err := orderService.Create(&order); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetServiceOrders lists orders, optionally filtered by status, customer or
// vehicle.
func GetServiceOrders(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var filter services.OrderFilter
	if status := c.Query("status"); status != "" {
		if !services.IsValidStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = status
	}
	if customerID := c.Query("customerId"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerUUID
	}
	if vehicleID := c.Query("vehicleId"); vehicleID != "" {
		vehicleUUID, err := uuid.Parse(vehicleID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
			return
		}
		filter.VehicleID = &vehicleUUID
	}

	orders, err := orderService.FindAll(tenantID, filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve service orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func GetServiceOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := orderService.FindByID(tenantID, orderUUID)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

func UpdateServiceOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := orderService.Update(tenantID, orderUUID, services.OrderUpdate{
		MileageOut: input.MileageOut,
		ExitNotes:  input.ExitNotes,
		ExitPhotos: input.ExitPhotos,
		Discount:   input.Discount,
	})
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service order")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateServiceOrderStatus advances the order through its lifecycle. Illegal
// transitions are rejected with 400.
func UpdateServiceOrderStatus(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !services.IsValidStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown status: "+input.Status)
		return
	}

	order, err := orderService.UpdateStatus(tenantID, orderUUID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransition):
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status transition")
		case utils.IsNotFound(err):
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// AddServiceOrderItem appends a part or labor line and returns the order
// with its recomputed totals.
func AddServiceOrderItem(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input AddOrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.OSItem{
		Type:        input.Type,
		Description: input.Description,
		PartNumber:  input.PartNumber,
		Brand:       input.Brand,
		Quantity:    input.Quantity,
		UnitCost:    input.UnitCost,
		UnitPrice:   input.UnitPrice,
		LaborHours:  input.LaborHours,
		LaborRate:   input.LaborRate,
	}

	if err := orderService.AddItem(tenantID, orderUUID, &item); err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add item")
		}
		return
	}

	order, err := orderService.FindByID(tenantID, orderUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// RemoveServiceOrderItem deletes an item line and returns the order with
// its recomputed totals.
func RemoveServiceOrderItem(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}
	itemUUID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := orderService.RemoveItem(tenantID, orderUUID, itemUUID); err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove item")
		}
		return
	}

	order, err := orderService.FindByID(tenantID, orderUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteServiceOrder soft deletes an order.
func DeleteServiceOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	if err := orderService.Delete(tenantID, orderUUID); err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service order deleted successfully"})
}
