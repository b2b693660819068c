// Package framing decides how an outbound HTTP/1.1 response body is
// delimited and applies the resulting framing headers.
package framing

//go:generate go tool errtrace -w .

import (
	"log/slog"
	"slices"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/internal/log"
	"github.com/ghettovoice/httpwire/message"
)

// noBodyStatuses are the response status codes that carry no body by
// protocol definition.
var noBodyStatuses = []int{100, 101, 102, 103, 204, 304}

// StatusHasBody reports whether a response with the given status code may
// carry a body.
func StatusHasBody(status int) bool {
	return !slices.Contains(noBodyStatuses, status)
}

// Engine computes the final body-framing headers of a response per the
// HTTP/1.1 message-length rules and backfills structural headers. An Engine
// is stateless apart from its configuration and is safe for concurrent use.
type Engine struct {
	clock     func() time.Time
	server    header.Server
	poweredBy string
	log       *slog.Logger
}

// Option configures an [Engine].
type Option interface {
	ApplyEngine(e *Engine)
}

type withClock struct {
	clock func() time.Time
}

func (o withClock) ApplyEngine(e *Engine) {
	if o.clock != nil {
		e.clock = o.clock
	}
}

// WithClock sets the time source used to backfill the Date header.
// The default is [time.Now].
func WithClock(clock func() time.Time) Option { return withClock{clock} }

type withServer struct {
	server header.Server
}

func (o withServer) ApplyEngine(e *Engine) { e.server = o.server }

// WithServer sets the Server header value backfilled into responses that do
// not carry one. An empty value disables the backfill.
func WithServer(server header.Server) Option { return withServer{server} }

type withPoweredBy struct {
	val string
}

func (o withPoweredBy) ApplyEngine(e *Engine) { e.poweredBy = o.val }

// WithPoweredBy sets the X-Powered-By header value backfilled into responses
// that do not carry one. An empty value disables the backfill.
func WithPoweredBy(val string) Option { return withPoweredBy{val} }

type withLogger struct {
	log *slog.Logger
}

func (o withLogger) ApplyEngine(e *Engine) {
	if o.log != nil {
		e.log = o.log
	}
}

// WithLogger sets the engine logger. The default logger discards everything.
func WithLogger(l *slog.Logger) Option { return withLogger{l} }

// New returns a framing engine with the given configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock: time.Now,
		log:   log.Noop,
	}
	for _, opt := range opts {
		opt.ApplyEngine(e)
	}
	return e
}

// Finalize derives the body-framing headers of a response from its body
// descriptor and status code and returns the finalized headers ready for
// serialization. The input headers are left untouched.
//
// The rules apply in order, first match wins:
//
//  1. A status code that forbids a body: no Content-Length or
//     Transfer-Encoding in the result. A body claiming a known length
//     greater than zero with such a status is reported as a
//     [*PreconditionError].
//  2. A multipart/byteranges body delimits its own end: headers pass
//     through as supplied.
//  3. A body of known length: Content-Length is set to that exact value
//     and no Transfer-Encoding is added.
//  4. A body of unknown length: chunked transfer coding is appended to the
//     outgoing Transfer-Encoding unless it is already chunked, or is a lone
//     "identity" by which the caller opts out of chunked wrapping.
//
// Regardless of the framing outcome, Date, Server and X-Powered-By are
// backfilled only when absent.
//
// Reading the caller-supplied Transfer-Encoding goes through the regular
// typed access of hs, so a malformed value surfaces per the mode of hs:
// strict aborts Finalize, lenient drops the value and the engine frames as
// if it were absent.
func (e *Engine) Finalize(hs *message.Headers, body message.Body, status int) (*message.Headers, error) {
	if !StatusHasBody(status) {
		if n, ok := body.Len(); ok && n > 0 {
			return nil, errtrace.Wrap(&PreconditionError{Status: status, Length: n})
		}
		return e.backfill(hs.Transform(func(b *message.Builder) {
			b.Del("Content-Length")
			b.Del("Transfer-Encoding")
		})), nil
	}

	if body.IsMultipartByteranges() {
		return e.backfill(hs), nil
	}

	if n, ok := body.Len(); ok {
		return e.backfill(hs.Transform(func(b *message.Builder) {
			b.Set(header.ContentLength(n)) //nolint:gosec // negative lengths are clamped by the body constructor
			b.Del("Transfer-Encoding")
		})), nil
	}

	te, err := hs.TransferEncoding()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if te == nil && hs.Has("Transfer-Encoding") {
		// Lenient mode dropped a malformed value, frame from scratch.
		e.log.Warn("replace malformed transfer coding with chunked",
			"raw", hs.Raw("Transfer-Encoding"),
			"status", status,
		)
	}
	if te.IsChunked() || e.optedOut(te) {
		return e.backfill(hs), nil
	}
	return e.backfill(hs.Transform(func(b *message.Builder) {
		b.Set(append(slices.Clone(te), header.CodingChunked))
	})), nil
}

// optedOut reports whether the caller declared a lone identity coding,
// taking over body delimiting from the engine.
func (e *Engine) optedOut(te header.TransferEncoding) bool {
	return len(te) == 1 && te[0] == header.CodingIdentity
}

func (e *Engine) backfill(hs *message.Headers) *message.Headers {
	needDate := !hs.Has("Date")
	needServer := e.server != "" && !hs.Has("Server")
	needPoweredBy := e.poweredBy != "" && !hs.Has("X-Powered-By")
	if !needDate && !needServer && !needPoweredBy {
		return hs
	}
	return hs.Transform(func(b *message.Builder) {
		if needDate {
			b.Set(&header.Date{Time: e.clock()})
		}
		if needServer {
			b.Set(e.server)
		}
		if needPoweredBy {
			b.SetRaw("X-Powered-By", e.poweredBy)
		}
	})
}
