package errors

import (
	"errors"
	"fmt"
)

// Error types specific to the batch orchestrator's own lifecycle, distinct
// from the provider/transport errors in llm.go.
var (
	// ErrConfigInvalid is the sentinel wrapped by ConfigInvalidError. The
	// Validate methods in internal/config return plain errors that do not
	// wrap it.
	ErrConfigInvalid = errors.New("invalid batch configuration")

	// ErrConsistency is returned when resume-scan finds a journal entry that
	// claims a state the filesystem contradicts (e.g. downloaded without a
	// response file on disk).
	ErrConsistency = errors.New("inconsistent batch state")

	// ErrBatchFailed is returned when a batch reaches a terminal non-success
	// status (failed/expired/cancelled) and the caller asked for its error.
	ErrBatchFailed = errors.New("batch did not complete successfully")

	// ErrBatchTooLarge is returned when a request file would exceed the
	// provider's per-batch request count or byte-size limit.
	ErrBatchTooLarge = errors.New("batch exceeds provider limits")

	// ErrUnknownBatch is the sentinel wrapped by UnknownBatchError for a batch
	// ID with no matching tracker entry. StatusTracker itself ignores unknown
	// IDs and does not return it.
	ErrUnknownBatch = errors.New("unknown batch id")
)

// ConfigInvalidError formats a configuration validation failure.
func ConfigInvalidError(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfigInvalid, field, err)
}

// ConsistencyError formats a resume-time consistency violation.
func ConsistencyError(reason string) error {
	return fmt.Errorf("%w: %s", ErrConsistency, reason)
}

// BatchFailedError formats a terminal batch failure, carrying the batch id
// and provider-reported status.
func BatchFailedError(batchID, status string) error {
	return fmt.Errorf("%w: batch %s ended with status %s", ErrBatchFailed, batchID, status)
}

// BatchTooLargeError formats a provider-limit violation.
func BatchTooLargeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrBatchTooLarge, reason)
}

// UnknownBatchError formats a lookup miss against the tracker.
func UnknownBatchError(batchID string) error {
	return fmt.Errorf("%w: %s", ErrUnknownBatch, batchID)
}

// IsConfigInvalid reports whether err is a configuration validation error.
func IsConfigInvalid(err error) bool { return errors.Is(err, ErrConfigInvalid) }

// IsConsistency reports whether err is a resume-time consistency error.
func IsConsistency(err error) bool { return errors.Is(err, ErrConsistency) }

// IsBatchFailed reports whether err wraps a terminal batch failure.
func IsBatchFailed(err error) bool { return errors.Is(err, ErrBatchFailed) }

// IsBatchTooLarge reports whether err wraps a provider-limit violation.
func IsBatchTooLarge(err error) bool { return errors.Is(err, ErrBatchTooLarge) }

// IsUnknownBatch reports whether err wraps an unknown-batch-id lookup miss.
func IsUnknownBatch(err error) bool { return errors.Is(err, ErrUnknownBatch) }
