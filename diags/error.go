package diags

import (
	"errors"
)

// Error is an error attributed to a source location.
type Error struct {
	Location Location
	Err      error
}

func At(loc Location, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Location: loc,
		Err:      err,
	}
}

func (e *Error) Error() string {
	if loc := e.Location.String(); loc != "" {
		return loc + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LocationOf returns the location of the first *Error in err's chain.
func LocationOf(err error) (Location, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Location, true
	}
	return Location{}, false
}
