package httpwire

import (
	"github.com/ghettovoice/httpwire/framing"
	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/internal/log"
	"github.com/ghettovoice/httpwire/message"
)

// Version is the current httpwire package version.
var Version = "0.0.0"

// Re-exported core types, so that simple integrations only import the root
// package.
type (
	Header        = header.Header
	HeaderName    = header.Name
	HeaderCodec   = header.Codec
	Registry      = header.Registry
	RenderOptions = header.RenderOptions

	Headers = message.Headers
	Builder = message.Builder
	Body    = message.Body
	Mode    = message.Mode

	Engine = framing.Engine
)

const (
	Strict  = message.Strict
	Lenient = message.Lenient
)

// Ready-made loggers for the WithLogger options. Lenient-mode parse
// diagnostics and the framing engine are silent by default.
var (
	// DefaultLogger writes compact human-readable records to stdout.
	DefaultLogger = log.Def
	// DevLogger writes verbose development records to stdout.
	DevLogger = log.Dev
)

// CanonicName returns the canonical form of an HTTP header field name.
func CanonicName[T ~string](name T) HeaderName { return header.CanonicName(name) }

// ParseHeader parses a single header line into a typed header using the
// built-in codec registry.
func ParseHeader(s string) (Header, error) {
	return header.Parse(s, nil)
}

// FromWire builds a Headers instance from raw wire header lines.
func FromWire(raw map[string][]string, opts ...message.Option) *Headers {
	return message.FromWire(raw, opts...)
}

// NewEngine returns a response framing engine.
func NewEngine(opts ...framing.Option) *Engine { return framing.New(opts...) }
