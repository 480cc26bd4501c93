package services

import (
	"testing"

	"oficinapro-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForwardChain(t *testing.T) {
	chain := []string{
		models.StatusDraft,
		models.StatusDiagnosing,
		models.StatusQuoting,
		models.StatusWaitingApproval,
		models.StatusApproved,
		models.StatusInProgress,
		models.StatusQualityCheck,
		models.StatusCompleted,
		models.StatusDelivered,
	}

	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, CanTransition(chain[i], chain[i+1]),
			"%s -> %s should be allowed", chain[i], chain[i+1])
	}

	// Skipping a step is never allowed.
	for i := 0; i < len(chain)-2; i++ {
		assert.False(t, CanTransition(chain[i], chain[i+2]),
			"%s -> %s should be rejected", chain[i], chain[i+2])
	}

	// Going backwards is never allowed.
	for i := 1; i < len(chain); i++ {
		assert.False(t, CanTransition(chain[i], chain[i-1]),
			"%s -> %s should be rejected", chain[i], chain[i-1])
	}
}

func TestCanTransitionCancel(t *testing.T) {
	assert.True(t, CanTransition(models.StatusDraft, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusCompleted, models.StatusCancelled))

	assert.False(t, CanTransition(models.StatusDelivered, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusDraft))
}

func TestCanTransitionRejectsUnknownAndSelf(t *testing.T) {
	assert.False(t, CanTransition("BOGUS", models.StatusDiagnosing))
	assert.False(t, CanTransition(models.StatusDraft, "BOGUS"))
	assert.False(t, CanTransition(models.StatusDraft, models.StatusDraft))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusDraft, models.StatusDiagnosing, models.StatusQuoting,
		models.StatusWaitingApproval, models.StatusApproved, models.StatusInProgress,
		models.StatusQualityCheck, models.StatusCompleted, models.StatusDelivered,
		models.StatusCancelled,
	} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("PENDING"))
	assert.False(t, IsValidStatus(""))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(models.StatusDelivered))
	assert.True(t, IsTerminalStatus(models.StatusCancelled))
	assert.False(t, IsTerminalStatus(models.StatusCompleted))
}
