// Package errorutil provides error helpers shared across the module.
package errorutil

//go:generate go tool errtrace -w .

import "fmt"

// Error is a string type that implements the error interface.
type Error string

func (s Error) Error() string { return string(s) }

func Errorf(format string, args ...any) error {
	return Error(fmt.Sprintf(format, args...)) //errtrace:skip
}
