// Package message implements the immutable header container shared by
// inbound and outbound HTTP messages.
package message

//go:generate go tool errtrace -w .

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/log"
	"github.com/ghettovoice/httpwire/internal/types"
	"github.com/ghettovoice/httpwire/internal/util"
)

// Mode is the parse failure policy of a [Headers] instance.
type Mode uint8

const (
	// Strict aborts the typed access on the first malformed header value.
	Strict Mode = iota
	// Lenient records malformed header values as diagnostics and reports
	// the typed value as absent.
	Lenient
)

func (m Mode) String() string {
	if m > Lenient {
		return "unknown"
	}
	return [...]string{"strict", "lenient"}[m]
}

type cellState uint8

const (
	cellParsed cellState = iota + 1
	cellFailed
)

// cell is the memoized decode slot of one header. A missing cell means the
// header has not been decoded yet; a failed cell is terminal and only exists
// under the lenient mode.
type cell struct {
	state cellState
	hdr   header.Header
	raw   []string
}

// Headers holds the raw wire values of an HTTP message keyed by canonical
// header name, decoding them into typed values lazily through a codec
// registry. Raw values are retained verbatim even when decoding fails.
//
// A Headers instance is immutable once constructed: mutations go through
// [Headers.Transform], which produces an independent instance. Instances may
// be read from multiple goroutines without external synchronization.
type Headers struct {
	reg  *header.Registry
	mode Mode
	log  *slog.Logger

	names []header.Name
	raw   map[header.Name][]string

	mu     sync.Mutex
	cells  map[header.Name]cell
	failed map[string][]string
}

// Option configures a [Headers] instance under construction.
type Option interface {
	ApplyHeaders(hs *Headers)
}

type withMode struct {
	mode Mode
}

func (o withMode) ApplyHeaders(hs *Headers) { hs.mode = o.mode }

// WithMode sets the parse failure policy. The default is [Strict].
func WithMode(mode Mode) Option { return withMode{mode} }

type withRegistry struct {
	reg *header.Registry
}

func (o withRegistry) ApplyHeaders(hs *Headers) {
	if o.reg != nil {
		hs.reg = o.reg
	}
}

// WithRegistry sets the codec registry. The default is [header.Default].
func WithRegistry(reg *header.Registry) Option { return withRegistry{reg} }

type withLogger struct {
	log *slog.Logger
}

func (o withLogger) ApplyHeaders(hs *Headers) {
	if o.log != nil {
		hs.log = o.log
	}
}

// WithLogger sets the logger used for lenient-mode parse diagnostics.
// The default logger discards everything.
func WithLogger(l *slog.Logger) Option { return withLogger{l} }

// New returns an empty Headers instance, typically used together with
// [Headers.Transform] to compose an outbound message.
func New(opts ...Option) *Headers {
	hs := &Headers{
		reg:    header.Default(),
		log:    log.Noop,
		raw:    map[header.Name][]string{},
		cells:  map[header.Name]cell{},
		failed: map[string][]string{},
	}
	for _, opt := range opts {
		opt.ApplyHeaders(hs)
	}
	return hs
}

// FromWire builds a Headers instance from raw wire header lines keyed by
// case-insensitive name. Nothing is decoded eagerly. Names are canonicalized
// and values of names that collide after canonicalization are merged
// preserving their slice order. Since Go maps carry no order, the
// serialization order of wire-built instances is the sorted canonical names.
func FromWire(raw map[string][]string, opts ...Option) *Headers {
	hs := New(opts...)
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		vals := raw[name]
		if len(vals) == 0 {
			continue
		}
		cn := header.CanonicName(header.Name(name))
		if _, ok := hs.raw[cn]; !ok {
			hs.names = append(hs.names, cn)
		}
		hs.raw[cn] = append(hs.raw[cn], vals...)
	}
	slices.Sort(hs.names)
	return hs
}

// Mode returns the parse failure policy of the instance.
func (hs *Headers) Mode() Mode { return hs.mode }

// Len returns the number of distinct header names.
func (hs *Headers) Len() int { return len(hs.names) }

// Has reports whether a header with the given name is present.
func (hs *Headers) Has(name header.Name) bool {
	_, ok := hs.raw[header.CanonicName(name)]
	return ok
}

// Names returns the canonical header names in serialization order.
func (hs *Headers) Names() []header.Name { return slices.Clone(hs.names) }

// Raw returns the raw wire values of the given header verbatim.
func (hs *Headers) Raw(name header.Name) []string {
	return slices.Clone(hs.raw[header.CanonicName(name)])
}

// FailedToParse returns the headers that failed to decode under the lenient
// mode, keyed by lowercased name, with their original raw values.
func (hs *Headers) FailedToParse() map[string][]string {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	failed := make(map[string][]string, len(hs.failed))
	for k, v := range hs.failed {
		failed[k] = slices.Clone(v)
	}
	return failed
}

// Get returns the decoded typed value of the given header, or nil when the
// header is absent. The decode result is memoized: a header is decoded at
// most once per instance.
//
// In [Strict] mode a malformed value aborts the access with a
// [*header.MalformedValueError] and nothing is cached, so the access stays
// retryable. In [Lenient] mode the failure is cached as terminal, recorded
// in [Headers.FailedToParse] and the header is reported absent on this and
// every later access.
func (hs *Headers) Get(name header.Name) (header.Header, error) {
	name = header.CanonicName(name)
	raw, ok := hs.raw[name]
	if !ok {
		return nil, nil
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()

	if cl, ok := hs.cells[name]; ok {
		switch cl.state {
		case cellParsed:
			return cl.hdr, nil
		case cellFailed:
			return nil, nil
		}
	}

	hdr, err := hs.decode(name, raw)
	if err != nil {
		if hs.mode == Strict {
			return nil, errtrace.Wrap(err)
		}
		hs.cells[name] = cell{state: cellFailed, raw: raw}
		hs.failed[string(util.LCase(name))] = raw
		hs.log.Warn("drop malformed header value",
			"header", log.StringValue(name),
			"raw", raw,
			"error", err,
		)
		return nil, nil
	}
	hs.cells[name] = cell{state: cellParsed, hdr: hdr}
	return hdr, nil
}

func (hs *Headers) decode(name header.Name, raw []string) (header.Header, error) {
	if c, ok := hs.reg.Lookup(name); ok {
		return errtrace.Wrap2(c.Decode(raw))
	}
	return &header.Any{Name: string(name), Value: strings.Join(raw, ", ")}, nil
}

// GetHeader returns the decoded value of the header identified by the typed
// header T, following the same memoization and failure policy as
// [Headers.Get]. The zero value of T is returned when the header is absent.
func GetHeader[T header.Header](hs *Headers) (T, error) {
	var zero T
	hdr, err := hs.Get(zero.CanonicName())
	if err != nil {
		return zero, errtrace.Wrap(err)
	}
	if hdr == nil {
		return zero, nil
	}

	h, ok := hdr.(T)
	if !ok {
		return zero, errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", hdr, zero))
	}
	return h, nil
}

// TransferEncoding returns the typed Transfer-Encoding header.
func (hs *Headers) TransferEncoding() (header.TransferEncoding, error) {
	return errtrace.Wrap2(GetHeader[header.TransferEncoding](hs))
}

// ContentEncoding returns the typed Content-Encoding header.
func (hs *Headers) ContentEncoding() (header.ContentEncoding, error) {
	return errtrace.Wrap2(GetHeader[header.ContentEncoding](hs))
}

// Connection returns the typed Connection header.
func (hs *Headers) Connection() (header.Connection, error) {
	return errtrace.Wrap2(GetHeader[header.Connection](hs))
}

// Vary returns the typed Vary header.
func (hs *Headers) Vary() (*header.Vary, error) {
	return errtrace.Wrap2(GetHeader[*header.Vary](hs))
}

// CrossOriginOpenerPolicy returns the typed Cross-Origin-Opener-Policy header.
func (hs *Headers) CrossOriginOpenerPolicy() (header.CrossOriginOpenerPolicy, error) {
	return errtrace.Wrap2(GetHeader[header.CrossOriginOpenerPolicy](hs))
}

// Date returns the typed Date header.
func (hs *Headers) Date() (*header.Date, error) {
	return errtrace.Wrap2(GetHeader[*header.Date](hs))
}

// Expires returns the typed Expires header.
func (hs *Headers) Expires() (*header.Expires, error) {
	return errtrace.Wrap2(GetHeader[*header.Expires](hs))
}

// LastModified returns the typed Last-Modified header.
func (hs *Headers) LastModified() (*header.LastModified, error) {
	return errtrace.Wrap2(GetHeader[*header.LastModified](hs))
}

// ContentLength returns the typed Content-Length header.
// Use [Headers.Has] to distinguish an absent header from a zero length.
func (hs *Headers) ContentLength() (header.ContentLength, error) {
	return errtrace.Wrap2(GetHeader[header.ContentLength](hs))
}

// ContentType returns the typed Content-Type header.
func (hs *Headers) ContentType() (*header.ContentType, error) {
	return errtrace.Wrap2(GetHeader[*header.ContentType](hs))
}

// Server returns the typed Server header.
func (hs *Headers) Server() (header.Server, error) {
	return errtrace.Wrap2(GetHeader[header.Server](hs))
}

// Clone returns an independent copy of the instance, including the memoized
// decode state.
func (hs *Headers) Clone() *Headers {
	return hs.Transform(func(*Builder) {})
}

// RenderTo writes the wire-format header block to w, one "Name: value" line
// per raw value followed by CRLF, in serialization order.
func (hs *Headers) RenderTo(w io.Writer, opts *types.RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, name := range hs.names {
		n := name
		if opts != nil && opts.Lower {
			n = util.LCase(n)
		}
		for _, v := range hs.raw[name] {
			cw.Fprint(n, ": ", v, "\r\n")
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the wire-format header block as a string.
func (hs *Headers) Render(opts *types.RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hs.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (hs *Headers) String() string { return hs.Render(nil) }

// Equal compares the raw header state of this instance with another.
// Decode state and mode are ignored.
func (hs *Headers) Equal(val any) bool {
	other, ok := val.(*Headers)
	if !ok {
		return false
	}

	if hs == other {
		return true
	} else if hs == nil || other == nil {
		return false
	}

	if len(hs.raw) != len(other.raw) {
		return false
	}
	for name, vals := range hs.raw {
		if !slices.Equal(vals, other.raw[name]) {
			return false
		}
	}
	return true
}
