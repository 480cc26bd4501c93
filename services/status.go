package services

import "oficinapro-backend/models"

// statusSuccessor is the forward chain of the order lifecycle. Each status
// may only advance to its single successor; CANCELLED is reachable from any
// non-terminal status.
var statusSuccessor = map[string]string{
	models.StatusDraft:           models.StatusDiagnosing,
	models.StatusDiagnosing:      models.StatusQuoting,
	models.StatusQuoting:         models.StatusWaitingApproval,
	models.StatusWaitingApproval: models.StatusApproved,
	models.StatusApproved:        models.StatusInProgress,
	models.StatusInProgress:      models.StatusQualityCheck,
	models.StatusQualityCheck:    models.StatusCompleted,
	models.StatusCompleted:       models.StatusDelivered,
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	if s == models.StatusDelivered || s == models.StatusCancelled {
		return true
	}
	_, ok := statusSuccessor[s]
	return ok
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(s string) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// CanTransition validates a status change against the transition table.
func CanTransition(from, to string) bool {
	if !IsValidStatus(from) || !IsValidStatus(to) || from == to {
		return false
	}
	if to == models.StatusCancelled {
		return !IsTerminalStatus(from)
	}
	return statusSuccessor[from] == to
}
