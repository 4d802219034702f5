package standings

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a required input is absent.
var ErrInvalidArgument = errors.New("invalid argument")

// DataSourceError reports a failure of the collaborator that supplies the
// standings rows. A season with no rows is not a DataSourceError.
type DataSourceError struct {
	// Op names the data source operation, e.g. "standing rows".
	Op string
	// Season is the requested year, 0 when the operation is not per season.
	Season int
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Season != 0 {
		return fmt.Sprintf("data source: %s for season %d: %v", e.Op, e.Season, e.Err)
	}
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// IsDataSourceError reports whether any error in err's chain is a DataSourceError.
func IsDataSourceError(err error) bool {
	var dsErr *DataSourceError
	return errors.As(err, &dsErr)
}
