package errs

import "errors"

// Sentinel errors for the concurrency core. All of these are recoverable:
// handlers translate them into user-facing responses, nothing is fatal.
var (
	// Reservation ledger / booking session errors
	ErrRoomConflict      = errors.New("room already held or booked for the requested dates")
	ErrHoldStale         = errors.New("hold expired before commit")
	ErrSessionNotFound   = errors.New("booking session not found")
	ErrNotSessionOwner   = errors.New("caller does not own the booking session")
	ErrSessionNotHolding = errors.New("booking session is no longer holding")
	ErrRoomNotInSession  = errors.New("room is not part of the booking session")
	ErrInvalidStayRange  = errors.New("invalid stay range")
	ErrPaymentFailed     = errors.New("payment was not confirmed")

	// Reward errors
	ErrRewardInvalid        = errors.New("invalid or expired reward code")
	ErrRewardAlreadyApplied = errors.New("a different reward code is already applied")

	// Conversation lock errors
	ErrConversationLocked   = errors.New("conversation is locked by another agent")
	ErrNotLockOwner         = errors.New("caller does not hold the conversation lock")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
