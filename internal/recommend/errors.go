package recommend

import "errors"

// ErrInvalidBudget is returned when a budget optimization is requested
// with a zero, negative, or non-finite budget. It is surfaced before any
// optimization work begins.
var ErrInvalidBudget = errors.New("budget must be a positive number")
