package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is one workshop account. Every other entity hangs off a tenant and
// all queries against tenant-owned data must filter by TenantID.
type Tenant struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	TradeName string `json:"tradeName"`
	CNPJ      string `gorm:"uniqueIndex;not null" json:"cnpj"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`

	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	Logo         string `json:"logo"`
	PrimaryColor string `gorm:"default:'#1E40AF'" json:"primaryColor"`

	Plan        string `gorm:"type:varchar(20);default:'FREE'" json:"plan"`
	MaxUsers    int    `gorm:"default:3" json:"maxUsers"`
	MaxVehicles int    `gorm:"default:50" json:"maxVehicles"`

	DefaultMarkup    float64 `gorm:"type:decimal(10,2);default:30.0" json:"defaultMarkup"`
	DefaultLaborRate float64 `gorm:"type:decimal(10,2);default:150.0" json:"defaultLaborRate"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Users     []User     `gorm:"foreignKey:TenantID" json:"users,omitempty"`
	Customers []Customer `gorm:"foreignKey:TenantID" json:"customers,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
