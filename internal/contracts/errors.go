package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by loaders, engines and the API/CLI edge.
// Missing KPI values are data (scored as 0), never an error.
var (
	ErrParse            = errors.New("parse error")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrUnsortedSeries   = errors.New("price dates must be strictly increasing")
)

// ParseError describes a malformed input row.
// Row is the 1-based data row (header excluded), 0 when the error is file-level.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row == 0 && e.Column == "":
		return fmt.Sprintf("parse error: %v", e.Err)
	case e.Row == 0:
		return fmt.Sprintf("parse error: column %s: %v", e.Column, e.Err)
	case e.Value == "":
		return fmt.Sprintf("parse error: row %d, column %s: %v", e.Row, e.Column, e.Err)
	default:
		return fmt.Sprintf("parse error: row %d, column %s, value %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
}

// Unwrap lets errors.Is match both ErrParse and the underlying cause
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
