package framing

import "fmt"

// PreconditionError reports a body/status combination the engine cannot
// reconcile: a body declaring a known non-zero length together with a status
// code that forbids a body. It signals a defect in the calling code, not in
// user input.
type PreconditionError struct {
	Status int
	Length int64
}

func (err *PreconditionError) Error() string {
	return fmt.Sprintf("framing: status %d forbids a body, got %d bytes", err.Status, err.Length)
}
