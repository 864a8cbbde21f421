package ledger

import "errors"

var (
	ErrConversionNotFound = errors.New("conversion not found")
	ErrLeadRequired       = errors.New("lead is required")
)
