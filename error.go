package httpwire

import (
	"github.com/ghettovoice/httpwire/framing"
	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/internal/errorutil"
)

// Boundary error types surfaced to integrators.
type (
	// MalformedValueError reports a header value rejected by its codec.
	// In strict mode it carries the name, raw values and reason of the
	// failing header, ready to be rendered into a bad-request body.
	MalformedValueError = header.MalformedValueError
	// PreconditionError reports a body/status combination the framing
	// engine cannot reconcile.
	PreconditionError = framing.PreconditionError
)

// IsGrammarErr reports whether err stems from input that breaks the HTTP
// field grammar, as opposed to a programming defect. Grammar errors deserve
// a bad-request response rather than a server error.
func IsGrammarErr(err error) bool { return errorutil.IsGrammarErr(err) }
