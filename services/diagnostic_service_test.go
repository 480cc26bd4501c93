package services

import (
	"testing"

	"oficinapro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignPartIDs(t *testing.T) {
	parts := []models.ExtractedPart{
		{Part: "Amortecedor"},
		{Part: "Pastilhas de freio"},
	}

	AssignPartIDs(parts)

	assert.NotEmpty(t, parts[0].ID)
	assert.NotEmpty(t, parts[1].ID)
	assert.NotEqual(t, parts[0].ID, parts[1].ID)
}

func TestSelectParts(t *testing.T) {
	parts := []models.ExtractedPart{
		{ID: "id-1", Part: "Amortecedor"},
		{ID: "id-2", Part: "Coifa do câmbio"},
		{ID: "id-3", Part: "Pastilhas de freio"},
	}

	selected := SelectParts(parts, []string{"id-3", "id-1"})
	require.Len(t, selected, 2)
	assert.Equal(t, "Amortecedor", selected[0].Part)
	assert.Equal(t, "Pastilhas de freio", selected[1].Part)

	// An unknown ID selects nothing.
	assert.Empty(t, SelectParts(parts, []string{"id-99"}))

	// Empty selection means everything.
	assert.Len(t, SelectParts(parts, nil), 3)
	assert.Len(t, SelectParts(parts, []string{}), 3)
}

func TestItemDescription(t *testing.T) {
	part := models.ExtractedPart{
		Part:     "Amortecedor",
		Position: "dianteiro",
		Action:   "trocar",
	}
	assert.Equal(t, "Trocar - Amortecedor dianteiro", ItemDescription(part))

	noPosition := models.ExtractedPart{Part: "Coifa do câmbio", Action: "verificar"}
	assert.Equal(t, "Verificar - Coifa do câmbio", ItemDescription(noPosition))
}
