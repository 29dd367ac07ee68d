package termination

import "errors"

var (
	ErrMissingDate        = errors.New("termination date is required")
	ErrMissingReason      = errors.New("termination reason is required")
	ErrUnknownReason      = errors.New("unknown termination reason")
	ErrMissingModality    = errors.New("notice modality is required")
	ErrUnknownModality    = errors.New("unknown notice modality")
	ErrNegativeBalance    = errors.New("fund balance must not be negative")
	ErrAdmissionAfterDate = errors.New("termination date precedes admission date")
)
