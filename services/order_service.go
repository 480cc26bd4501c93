// services/order_service.go
package services

import (
	"errors"
	"time"

	"oficinapro-backend/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidTransition is returned when a status change is not allowed by
// the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// OrderService owns order numbering, the status machine and the totals
// recomputation. Item mutations run inside a transaction holding a row lock
// on the order so concurrent writers cannot leave totals inconsistent with
// the item set.
type OrderService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewOrderService(db *gorm.DB, notifier *NotificationService) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

// OrderFilter narrows FindAll results.
type OrderFilter struct {
	Status     string
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
}

func (s *OrderService) FindAll(tenantID uuid.UUID, filter OrderFilter) ([]models.ServiceOrder, error) {
	query := s.db.Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}

	var orders []models.ServiceOrder
	err := query.
		Preload("Customer").
		Preload("Vehicle").
		Preload("CreatedBy").
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *OrderService) FindByID(tenantID, id uuid.UUID) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Customer").
		Preload("Vehicle").
		Preload("CreatedBy").
		Preload("Items").
		Preload("Diagnostics").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create assigns the next tenant-local sequence number and inserts the
// order in DRAFT. The lookup of the last number and the insert share a
// transaction with a row lock; the tenant-scoped unique index on the number
// backstops the empty-tenant case.
func (s *OrderService) Create(order *models.ServiceOrder) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var last models.ServiceOrder
		err := lastOrderScope(tx, order.TenantID).First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		order.Number = last.Number + 1
		order.Status = models.StatusDraft
		return tx.Create(order).Error
	})
}

// lastOrderScope targets the tenant's highest-numbered order, soft-deleted
// rows included: a deleted order still occupies its number in the unique
// index, so the sequence must keep counting past it.
func lastOrderScope(tx *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	return tx.Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		Order("number desc")
}

// OrderUpdate carries the mutable fields of an order.
type OrderUpdate struct {
	MileageOut *int
	ExitNotes  *string
	ExitPhotos []string
	Discount   *float64
}

// orderUpdateFields builds the column set an update writes. Only the
// supplied fields appear; the totals stay owned by the item recompute and
// are never part of this write set.
func orderUpdateFields(update OrderUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if update.MileageOut != nil {
		fields["mileage_out"] = *update.MileageOut
	}
	if update.ExitNotes != nil {
		fields["exit_notes"] = *update.ExitNotes
	}
	if update.ExitPhotos != nil {
		fields["exit_photos"] = models.StringSlice(update.ExitPhotos)
	}
	if update.Discount != nil {
		fields["discount"] = *update.Discount
	}
	return fields
}

func (s *OrderService) Update(tenantID, id uuid.UUID, update OrderUpdate) (*models.ServiceOrder, error) {
	fields := orderUpdateFields(update)
	if len(fields) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := lockOrder(tx, tenantID, id); err != nil {
				return err
			}
			return tx.Model(&models.ServiceOrder{}).
				Where("tenant_id = ? AND id = ?", tenantID, id).
				Updates(fields).Error
		})
		if err != nil {
			return nil, err
		}
	}
	return s.FindByID(tenantID, id)
}

// statusStampColumn maps an entered status to the lifecycle timestamp it
// stamps; empty for statuses without one.
func statusStampColumn(status string) string {
	switch status {
	case models.StatusApproved:
		return "approved_at"
	case models.StatusInProgress:
		return "started_at"
	case models.StatusCompleted:
		return "completed_at"
	case models.StatusDelivered:
		return "delivered_at"
	}
	return ""
}

// statusUpdateFields is the column set a status change writes: the status
// itself plus at most one lifecycle stamp.
func statusUpdateFields(status string, now time.Time) map[string]interface{} {
	fields := map[string]interface{}{"status": status}
	if column := statusStampColumn(status); column != "" {
		fields[column] = now
	}
	return fields
}

// UpdateStatus validates the transition against the table and stamps the
// lifecycle timestamp of the entered status. The table makes re-entering a
// status impossible, so every stamp is set at most once. The check and the
// write share a row lock, and only the status columns are written, so a
// concurrent totals recompute is never clobbered.
func (s *OrderService) UpdateStatus(tenantID, id uuid.UUID, status string) (*models.ServiceOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.ServiceOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			First(&order).Error; err != nil {
			return err
		}

		if !CanTransition(order.Status, status) {
			return ErrInvalidTransition
		}

		return tx.Model(&models.ServiceOrder{}).
			Where("id = ?", order.ID).
			Updates(statusUpdateFields(status, time.Now())).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.FindByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if status == models.StatusCompleted && s.notifier != nil {
		if err := s.notifier.OrderCompleted(order); err != nil {
			log.WithError(err).WithField("order", order.ID).Warn("order-ready notification failed")
		}
	}

	return order, nil
}

// AddItem inserts the item with its stored total and recomputes the order
// totals, all under a lock on the order row.
func (s *OrderService) AddItem(tenantID, orderID uuid.UUID, item *models.OSItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, tenantID, orderID); err != nil {
			return err
		}

		item.ServiceOrderID = orderID
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		item.TotalPrice = item.Quantity * item.UnitPrice

		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return recalculateTotals(tx, orderID)
	})
}

// RemoveItem deletes the item and recomputes totals before returning.
func (s *OrderService) RemoveItem(tenantID, orderID, itemID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, tenantID, orderID); err != nil {
			return err
		}

		result := tx.Where("service_order_id = ? AND id = ?", orderID, itemID).
			Delete(&models.OSItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recalculateTotals(tx, orderID)
	})
}

func (s *OrderService) Delete(tenantID, id uuid.UUID) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ServiceOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func lockOrder(tx *gorm.DB, tenantID, orderID uuid.UUID) error {
	var order models.ServiceOrder
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&order).Error
}

func recalculateTotals(tx *gorm.DB, orderID uuid.UUID) error {
	var items []models.OSItem
	if err := tx.Where("service_order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}

	totalParts, totalLabor, totalPrice := ComputeTotals(items)

	return tx.Model(&models.ServiceOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"total_parts": totalParts,
			"total_labor": totalLabor,
			"total_price": totalPrice,
		}).Error
}

// ComputeTotals partitions item totals by type. The grand total is parts
// plus labor; the stored discount is deliberately not subtracted here.
func ComputeTotals(items []models.OSItem) (totalParts, totalLabor, totalPrice float64) {
	for _, item := range items {
		if item.Type == models.ItemTypePart {
			totalParts += item.TotalPrice
		} else {
			totalLabor += item.TotalPrice
		}
	}
	return totalParts, totalLabor, totalParts + totalLabor
}
