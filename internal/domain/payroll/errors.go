package payroll

import "errors"

var (
	ErrDuplicateRubrica = errors.New("ledger already has an event for this rubrica")
	ErrEventNotFound    = errors.New("ledger event not found")
	ErrProtectedRubrica = errors.New("rubrica is protected and cannot be removed")
	ErrSystemManaged    = errors.New("event is system-managed and cannot be edited directly")
	ErrUnknownField     = errors.New("unknown event field")
	ErrNegativeAmount   = errors.New("monetary values must not be negative")
	ErrTotalMismatch    = errors.New("supplied gross total does not match summed events")
	ErrPeriodFinalized  = errors.New("period is finalized and read-only")
	ErrPeriodNotFound   = errors.New("payroll period not found")
)
