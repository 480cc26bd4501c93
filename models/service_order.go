package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft           = "DRAFT"
	StatusDiagnosing      = "DIAGNOSING"
	StatusQuoting         = "QUOTING"
	StatusWaitingApproval = "WAITING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusInProgress      = "IN_PROGRESS"
	StatusQualityCheck    = "QUALITY_CHECK"
	StatusCompleted       = "COMPLETED"
	StatusDelivered       = "DELIVERED"
	StatusCancelled       = "CANCELLED"
)

const (
	ItemTypePart    = "PART"
	ItemTypeService = "SERVICE"
)

// ServiceOrder (OS) is the billing and tracking unit for one vehicle visit.
// The three totals are derived from the items and recomputed in full on
// every item mutation; discount is stored but not subtracted from TotalPrice.
type ServiceOrder struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_tenant_number,priority:1" json:"tenantId"`

	// Tenant-local sequence, last + 1, never reused.
	Number int `gorm:"not null;uniqueIndex:idx_tenant_number,priority:2" json:"number"`

	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	VehicleID   uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicleId"`
	CreatedByID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdById"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`

	MileageIn   *int        `json:"mileageIn"`
	MileageOut  *int        `json:"mileageOut"`
	FuelLevel   *int        `json:"fuelLevel"`
	EntryNotes  string      `json:"entryNotes"`
	ExitNotes   string      `json:"exitNotes"`
	EntryPhotos StringSlice `gorm:"type:jsonb;default:'[]'" json:"entryPhotos"`
	ExitPhotos  StringSlice `gorm:"type:jsonb;default:'[]'" json:"exitPhotos"`

	TotalParts float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalParts"`
	TotalLabor float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalLabor"`
	Discount   float64 `gorm:"type:decimal(10,2);default:0.0" json:"discount"`
	TotalPrice float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalPrice"`

	ApprovedAt  *time.Time `json:"approvedAt"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`

	Customer    *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle     *Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	CreatedBy   *User        `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Items       []OSItem     `gorm:"foreignKey:ServiceOrderID" json:"items,omitempty"`
	Diagnostics []Diagnostic `gorm:"foreignKey:ServiceOrderID" json:"diagnostics,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OSItem is one billable line on a service order. TotalPrice is stored, not
// computed: quantity x unit price at insert time. UnitCost is informational
// and never enters the totals.
type OSItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceOrderId"`

	Type        string `gorm:"type:varchar(10);not null;default:'PART'" json:"type"`
	Description string `gorm:"not null" json:"description"`
	PartNumber  string `json:"partNumber"`
	Brand       string `json:"brand"`

	Quantity   float64 `gorm:"type:decimal(10,2);default:1.0" json:"quantity"`
	UnitCost   float64 `gorm:"type:decimal(10,2);default:0.0" json:"unitCost"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);default:0.0" json:"unitPrice"`
	TotalPrice float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalPrice"`

	LaborHours *float64 `gorm:"type:decimal(10,2)" json:"laborHours"`
	LaborRate  *float64 `gorm:"type:decimal(10,2)" json:"laborRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *OSItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// StringSlice stores a list of strings as a jsonb column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, s)
}
