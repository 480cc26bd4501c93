package services

import (
	"testing"
	"time"

	"oficinapro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB opens a connectionless session that only renders SQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

// A soft-deleted order keeps its number occupied in the unique index, so
// the sequence lookup must see deleted rows or numbering jams after
// deleting the newest order.
func TestLastOrderScopeIncludesSoftDeleted(t *testing.T) {
	db := dryRunDB(t)
	tenantID := uuid.New()

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var last models.ServiceOrder
		return lastOrderScope(tx, tenantID).First(&last)
	})

	assert.NotContains(t, sql, "deleted_at")
	assert.Contains(t, sql, "ORDER BY number desc")
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestStatusStampColumn(t *testing.T) {
	stamps := map[string]string{
		models.StatusDraft:           "",
		models.StatusDiagnosing:      "",
		models.StatusQuoting:         "",
		models.StatusWaitingApproval: "",
		models.StatusApproved:        "approved_at",
		models.StatusInProgress:      "started_at",
		models.StatusQualityCheck:    "",
		models.StatusCompleted:       "completed_at",
		models.StatusDelivered:       "delivered_at",
		models.StatusCancelled:       "",
	}

	for status, column := range stamps {
		assert.Equal(t, column, statusStampColumn(status), status)
	}
}

// Entering a status writes the status itself and exactly its own stamp,
// never another status's stamp and never the totals.
func TestStatusUpdateFields(t *testing.T) {
	now := time.Now()
	allStamps := []string{"approved_at", "started_at", "completed_at", "delivered_at"}

	for status, column := range map[string]string{
		models.StatusDiagnosing: "",
		models.StatusApproved:   "approved_at",
		models.StatusInProgress: "started_at",
		models.StatusCompleted:  "completed_at",
		models.StatusDelivered:  "delivered_at",
		models.StatusCancelled:  "",
	} {
		fields := statusUpdateFields(status, now)
		assert.Equal(t, status, fields["status"])

		if column == "" {
			assert.Len(t, fields, 1, status)
		} else {
			assert.Len(t, fields, 2, status)
			assert.Equal(t, now, fields[column], status)
		}
		for _, other := range allStamps {
			if other != column {
				assert.NotContains(t, fields, other, status)
			}
		}
		for _, total := range []string{"total_parts", "total_labor", "total_price"} {
			assert.NotContains(t, fields, total, status)
		}
	}
}

// A status change renders as a column-scoped UPDATE so a concurrent item
// recompute is never overwritten with a stale snapshot.
func TestStatusUpdateWriteSetSQL(t *testing.T) {
	db := dryRunDB(t)
	orderID := uuid.New()

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.ServiceOrder{}).
			Where("id = ?", orderID).
			Updates(statusUpdateFields(models.StatusInProgress, time.Now()))
	})

	assert.Contains(t, sql, `"status"`)
	assert.Contains(t, sql, `"started_at"`)
	assert.NotContains(t, sql, "total_parts")
	assert.NotContains(t, sql, "total_labor")
	assert.NotContains(t, sql, "total_price")
}

func TestOrderUpdateFields(t *testing.T) {
	mileage := 42000
	notes := "pronto para retirada"
	discount := 50.0

	fields := orderUpdateFields(OrderUpdate{
		MileageOut: &mileage,
		ExitNotes:  &notes,
		ExitPhotos: []string{"saida-1.jpg"},
		Discount:   &discount,
	})
	assert.Equal(t, map[string]interface{}{
		"mileage_out": 42000,
		"exit_notes":  "pronto para retirada",
		"exit_photos": models.StringSlice{"saida-1.jpg"},
		"discount":    50.0,
	}, fields)

	// Partial updates write only what was supplied.
	fields = orderUpdateFields(OrderUpdate{ExitNotes: &notes})
	assert.Equal(t, map[string]interface{}{"exit_notes": "pronto para retirada"}, fields)

	assert.Empty(t, orderUpdateFields(OrderUpdate{}))
}

func TestComputeTotals(t *testing.T) {
	items := []models.OSItem{
		{Type: models.ItemTypePart, TotalPrice: 150.00},
		{Type: models.ItemTypePart, TotalPrice: 89.90},
		{Type: models.ItemTypeService, TotalPrice: 200.00},
	}

	totalParts, totalLabor, totalPrice := ComputeTotals(items)

	assert.InDelta(t, 239.90, totalParts, 0.001)
	assert.InDelta(t, 200.00, totalLabor, 0.001)
	assert.InDelta(t, 439.90, totalPrice, 0.001)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totalParts, totalLabor, totalPrice := ComputeTotals(nil)

	assert.Zero(t, totalParts)
	assert.Zero(t, totalLabor)
	assert.Zero(t, totalPrice)
}

// The grand total is always parts plus labor regardless of the stored
// discount.
func TestComputeTotalsIgnoresDiscount(t *testing.T) {
	items := []models.OSItem{
		{Type: models.ItemTypePart, TotalPrice: 100},
		{Type: models.ItemTypeService, TotalPrice: 50},
	}

	totalParts, totalLabor, totalPrice := ComputeTotals(items)
	assert.Equal(t, totalParts+totalLabor, totalPrice)
}
