package service

import "errors"

// Business errors surfaced by the engines. Handlers discriminate them
// through the Is* helpers and ErrorCode below.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrMissionNotFound = errors.New("mission not found")
	ErrItemNotFound    = errors.New("shop item not found")

	ErrAlreadyClaimed       = errors.New("mission already claimed")
	ErrNotClaimed           = errors.New("mission not claimed")
	ErrNotCompleted         = errors.New("mission not completed")
	ErrAlreadyRewardClaimed = errors.New("mission reward already claimed")

	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrInsufficientPoints  = errors.New("insufficient points for purchase")
	ErrInsufficientStock   = errors.New("insufficient stock")

	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrConflict marks a transient serialization failure on a shared
	// row. Callers may retry the whole operation a bounded number of
	// times.
	ErrConflict = errors.New("concurrent modification detected")
)

// IsNotFound reports whether the error refers to a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrMissionNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsInvalidState reports a state-machine precondition violation.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrNotClaimed) ||
		errors.Is(err, ErrNotCompleted) ||
		errors.Is(err, ErrAlreadyRewardClaimed)
}

// IsInsufficient reports that a balance or stock check failed.
func IsInsufficient(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.Is(err, ErrInsufficientStock)
}

// IsInvalidInput reports malformed caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) || errors.Is(err, ErrInvalidInput)
}

// IsRetryable reports whether the operation might succeed if retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ErrorCode returns a stable machine-readable code for a business
// error, or "INTERNAL" for anything unexpected.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrTaskNotFound):
		return "TASK_NOT_FOUND"
	case errors.Is(err, ErrMissionNotFound):
		return "MISSION_NOT_FOUND"
	case errors.Is(err, ErrItemNotFound):
		return "ITEM_NOT_FOUND"
	case errors.Is(err, ErrAlreadyClaimed):
		return "ALREADY_CLAIMED"
	case errors.Is(err, ErrNotClaimed):
		return "NOT_CLAIMED"
	case errors.Is(err, ErrNotCompleted):
		return "NOT_COMPLETED"
	case errors.Is(err, ErrAlreadyRewardClaimed):
		return "ALREADY_REWARD_CLAIMED"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrInsufficientPoints):
		return "INSUFFICIENT_POINTS"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
