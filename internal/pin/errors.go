package pin

import (
	"errors"
	"fmt"
)

// SyncError represents a fatal error detected during a reconciliation
// run. Every error aborts the remaining pipeline stages; there is no
// retry or partial-success path within a run.
//
// SyncError includes structured fields for diagnostics: the offending
// item id, field name, or duplicated key, depending on the code.
type SyncError struct {
	// Code identifies the error category.
	Code SyncErrorCode

	// Message is a human-readable description.
	Message string

	// ItemID identifies the affected item (for format errors).
	ItemID string

	// Field names the missing payload field (for MISSING_FIELD).
	Field string

	// Key is the duplicated identity key (for DUPLICATE_KEY).
	Key string

	// Err is the underlying error, if any (for REMOTE_API_ERROR).
	Err error
}

// SyncErrorCode categorizes reconciliation errors.
type SyncErrorCode string

const (
	// ErrCodeRemoteAPI indicates the remote API reported an error.
	ErrCodeRemoteAPI SyncErrorCode = "REMOTE_API_ERROR"

	// ErrCodeMissingField indicates an item lacks the payload its type
	// tag declares.
	ErrCodeMissingField SyncErrorCode = "MISSING_FIELD"

	// ErrCodeUnknownItemType indicates an item type tag that is neither
	// "message" nor "file".
	ErrCodeUnknownItemType SyncErrorCode = "UNKNOWN_ITEM_TYPE"

	// ErrCodeDuplicateKey indicates the one-row-per-timestamp invariant
	// was violated.
	ErrCodeDuplicateKey SyncErrorCode = "DUPLICATE_KEY"

	// ErrCodeConfiguration indicates a required configuration value is
	// absent or invalid.
	ErrCodeConfiguration SyncErrorCode = "CONFIGURATION_ERROR"
)

// Error implements the error interface.
func (e *SyncError) Error() string {
	switch {
	case e.ItemID != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (item=%s, field=%s)", e.Code, e.Message, e.ItemID, e.Field)
	case e.ItemID != "":
		return fmt.Sprintf("%s: %s (item=%s)", e.Code, e.Message, e.ItemID)
	case e.Key != "":
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *SyncError) Unwrap() error { return e.Err }

// CodeOf extracts the SyncErrorCode from an error, or "" if the error
// is not a SyncError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) SyncErrorCode {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRemoteAPIError reports whether err is a remote API failure.
func IsRemoteAPIError(err error) bool { return CodeOf(err) == ErrCodeRemoteAPI }

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool { return CodeOf(err) == ErrCodeConfiguration }

// IsDuplicateKeyError reports whether err is a uniqueness violation.
func IsDuplicateKeyError(err error) bool { return CodeOf(err) == ErrCodeDuplicateKey }

// NewRemoteAPIError wraps an error reported by the remote API.
func NewRemoteAPIError(op string, err error) *SyncError {
	return &SyncError{
		Code:    ErrCodeRemoteAPI,
		Message: fmt.Sprintf("remote API call %s failed", op),
		Err:     err,
	}
}

// NewMissingFieldError creates a SyncError for an item whose declared
// type lacks its payload.
func NewMissingFieldError(itemID, field string) *SyncError {
	return &SyncError{
		Code:    ErrCodeMissingField,
		Message: "item is missing the payload its type declares",
		ItemID:  itemID,
		Field:   field,
	}
}

// NewUnknownItemTypeError creates a SyncError for an unrecognized item
// type tag.
func NewUnknownItemTypeError(itemID string, itemType ItemType) *SyncError {
	return &SyncError{
		Code:    ErrCodeUnknownItemType,
		Message: fmt.Sprintf("unknown item type %q", itemType),
		ItemID:  itemID,
	}
}

// NewDuplicateKeyError creates a SyncError for a duplicated identity
// key.
func NewDuplicateKeyError(key string) *SyncError {
	return &SyncError{
		Code:    ErrCodeDuplicateKey,
		Message: "more than one row carries the same timestamp",
		Key:     key,
	}
}

// NewConfigurationError creates a SyncError for a missing or invalid
// configuration value.
func NewConfigurationError(message string) *SyncError {
	return &SyncError{
		Code:    ErrCodeConfiguration,
		Message: message,
	}
}
