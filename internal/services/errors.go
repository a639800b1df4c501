package services

import (
	"errors"
	"fmt"
)

var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError reports why the analysis window cannot support a
// correlation run. Callers recover by asking the user to keep tracking; the
// engine never retries on its own.
type InsufficientDataError struct {
	FlareDays int
	TotalDays int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d flare days, %d logged days", e.FlareDays, e.TotalDays)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
