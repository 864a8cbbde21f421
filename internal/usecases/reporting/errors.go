package reporting

import "errors"

var (
	ErrUnknownMetric = errors.New("unknown trend metric")
	ErrUnknownView   = errors.New("unknown report view")
)
