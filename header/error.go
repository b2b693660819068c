package header

import "fmt"

// Decode failure reasons shared by the codecs.
const (
	ReasonEmptyValue   = "Value cannot be empty"
	ReasonInvalidValue = "Invalid value"
	ReasonWildcardMix  = "Wildcard cannot be used with other values"
)

// MalformedValueError reports a header value that does not match the header's
// wire grammar. It carries the header name and the raw values exactly as they
// appeared on the wire, so it can be rendered into a client-facing
// bad-request body.
type MalformedValueError struct {
	Name   Name
	Raw    []string
	Reason string
}

func (err *MalformedValueError) Error() string {
	if err == nil {
		return "<nil>"
	}
	return fmt.Sprintf("malformed %q header: %s", err.Name, err.Reason)
}

func (*MalformedValueError) Grammar() bool { return true }
