package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FuelFlex     = "FLEX"
	FuelGasoline = "GASOLINE"
	FuelEthanol  = "ETHANOL"
	FuelDiesel   = "DIESEL"
	FuelElectric = "ELECTRIC"
	FuelHybrid   = "HYBRID"
)

const (
	TransmissionManual    = "MANUAL"
	TransmissionAutomatic = "AUTOMATIC"
	TransmissionCVT       = "CVT"
	TransmissionAutomated = "AUTOMATED"
)

type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_tenant_plate,priority:1" json:"tenantId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	// Stored normalized: uppercase, no hyphen. Legacy AAA9999 or
	// Mercosul AAA9A99.
	Plate string `gorm:"not null;uniqueIndex:idx_tenant_plate,priority:2" json:"plate"`

	Chassi  string `json:"chassi"`
	Renavam string `json:"renavam"`

	Brand     string `gorm:"not null" json:"brand"`
	Model     string `gorm:"not null" json:"model"`
	Version   string `json:"version"`
	Year      int    `gorm:"not null" json:"year"`
	ModelYear int    `json:"modelYear"`
	Color     string `json:"color"`

	FuelType     string `gorm:"type:varchar(20);default:'FLEX'" json:"fuelType"`
	Transmission string `gorm:"type:varchar(20);default:'MANUAL'" json:"transmission"`
	Engine       string `json:"engine"`

	Mileage int    `gorm:"default:0" json:"mileage"`
	Notes   string `json:"notes"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Customer      *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceOrders []ServiceOrder `gorm:"foreignKey:VehicleID" json:"serviceOrders,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
