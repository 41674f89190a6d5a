package engine

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

var (
	// ErrNoData is returned by a view computed over zero contributing rows.
	ErrNoData = eris.New("no data for the applied filters")
	// ErrInsufficientData is returned when a pivot has no rows or no columns.
	ErrInsufficientData = eris.New("not enough data to build the view")
	// ErrInvalidRange is returned for a missing or inverted date range.
	ErrInvalidRange = eris.New("invalid date range")
	// ErrEmptyQuery is returned when a code search has nothing to match.
	ErrEmptyQuery = eris.New("search query is empty")
)

// MissingFieldError reports a view that references a column the loaded
// table does not carry.
type MissingFieldError struct {
	Field model.Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("no data for %q: column not present in the source", e.Field.Name())
}

// requireFields returns a *MissingFieldError for the first field t lacks.
func requireFields(t *model.Table, fields ...model.Field) error {
	for _, f := range fields {
		if !t.HasField(f) {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// IsUnavailable reports whether err is one of the non-fatal view conditions:
// missing column, no data, or insufficient data.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var mf *MissingFieldError
	return errors.As(err, &mf) || eris.Is(err, ErrNoData) || eris.Is(err, ErrInsufficientData)
}
