package convert

import (
	"fmt"
	"sort"
)

// UnknownRefPointError is returned when the reference-point selector names a
// benchmark the assessment output does not carry. Fatal: the conversion is
// aborted with no partial output.
type UnknownRefPointError struct {
	Name      string
	Available []string
}

// Error implements the error interface.
func (e *UnknownRefPointError) Error() string {
	avail := append([]string(nil), e.Available...)
	sort.Strings(avail)
	return fmt.Sprintf("convert: reference point %q not present in assessment output (available: %v)", e.Name, avail)
}
