package header

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"braces.dev/errtrace"

	"github.com/samber/lo"

	"github.com/ghettovoice/httpwire/internal/util"
)

// Codec pairs the decode and encode halves of one header's wire grammar with
// its validation metadata. Decode must satisfy normalization idempotence:
// decoding the encoding of a decoded value yields the same value.
type Codec struct {
	// Name is the canonical header name this codec serves.
	Name Name
	// SingleValued marks headers that admit exactly one value line.
	SingleValued bool
	// EmptyPermitted allows an empty wire value.
	EmptyPermitted bool
	// CommaList marks comma-separated list grammar: multiple lines are
	// equivalent to one line with values joined by commas.
	CommaList bool
	// DecodeFunc converts raw wire values into the typed header.
	DecodeFunc func(raw []string) (Header, error)
}

// Decode converts raw wire values into the typed header value.
// The returned error is always a [*MalformedValueError] carrying the raw
// values verbatim.
func (c *Codec) Decode(raw []string) (Header, error) {
	if c.SingleValued && len(raw) > 1 {
		return nil, errtrace.Wrap(&MalformedValueError{Name: c.Name, Raw: slices.Clone(raw), Reason: ReasonInvalidValue})
	}
	hdr, err := c.DecodeFunc(raw)
	if err != nil {
		var mErr *MalformedValueError
		if errors.As(err, &mErr) && mErr.Raw == nil {
			mErr.Raw = slices.Clone(raw)
		}
		return nil, errtrace.Wrap(err)
	}
	return hdr, nil
}

// Encode converts the typed header value back into raw wire values.
// A nil result means the header carries no value and must be dropped:
// a header with zero values is meaningless on the wire.
func (c *Codec) Encode(hdr Header) []string {
	if hdr == nil {
		return nil
	}
	v := hdr.RenderValue()
	if v == "" && !c.EmptyPermitted {
		return nil
	}
	return []string{v}
}

// Registry is an immutable lookup table mapping canonical header names to
// their codecs. Build it once at startup and inject it where needed.
type Registry struct {
	codecs map[Name]*Codec
}

// RegistryOption configures a [Registry] under construction.
type RegistryOption interface {
	ApplyRegistry(codecs map[Name]*Codec)
}

type withCodec struct {
	codec Codec
}

func (o withCodec) ApplyRegistry(codecs map[Name]*Codec) {
	c := o.codec
	c.Name = CanonicName(c.Name)
	codecs[c.Name] = &c
}

// WithCodec registers an extension codec, replacing any built-in codec
// registered under the same canonical name.
func WithCodec(c Codec) RegistryOption { return withCodec{c} }

// NewRegistry builds a registry with all built-in codecs plus any extension
// codecs supplied through options. The result never changes afterwards.
func NewRegistry(opts ...RegistryOption) *Registry {
	codecs := make(map[Name]*Codec, len(builtinCodecs)+len(opts))
	for i := range builtinCodecs {
		codecs[builtinCodecs[i].Name] = &builtinCodecs[i]
	}
	for _, opt := range opts {
		opt.ApplyRegistry(codecs)
	}
	return &Registry{codecs: codecs}
}

// Lookup returns the codec registered for name, if any.
func (r *Registry) Lookup(name Name) (*Codec, bool) {
	c, ok := r.codecs[CanonicName(name)]
	return c, ok
}

// Names returns the canonical names of all registered codecs in sorted order.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.codecs))
	for n := range r.codecs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// Default returns the shared registry holding only the built-in codecs.
func Default() *Registry { return defaultRegistry() }

var builtinCodecs = [...]Codec{
	{Name: "Transfer-Encoding", CommaList: true, DecodeFunc: parseTransferEncoding},
	{Name: "Content-Encoding", CommaList: true, DecodeFunc: parseContentEncoding},
	{Name: "Connection", CommaList: true, DecodeFunc: parseConnection},
	{Name: "Vary", CommaList: true, DecodeFunc: parseVary},
	{Name: "Cross-Origin-Opener-Policy", SingleValued: true, DecodeFunc: parseCrossOriginOpenerPolicy},
	{Name: "Date", SingleValued: true, DecodeFunc: parseDate},
	{Name: "Expires", SingleValued: true, DecodeFunc: parseExpires},
	{Name: "Last-Modified", SingleValued: true, DecodeFunc: parseLastModified},
	{Name: "Content-Length", SingleValued: true, DecodeFunc: parseContentLength},
	{Name: "Content-Type", SingleValued: true, DecodeFunc: parseContentType},
	{Name: "Server", SingleValued: true, DecodeFunc: parseServer},
}

// listTokens joins raw value lines into one comma-list, splits it and trims
// each token, dropping empty ones. Order is preserved.
func listTokens(raw []string) []string {
	joined := strings.Join(raw, ",")
	parts := strings.Split(joined, ",")
	tokens := parts[:0]
	for _, p := range parts {
		if p = string(util.TrimSP(p)); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// dedupeTokens drops case-insensitive duplicates keeping first occurrence order.
func dedupeTokens(tokens []string) []string {
	return lo.UniqBy(tokens, util.LCase[string])
}

// singleValue extracts the value of a single-valued header.
func singleValue(raw []string) (string, bool) {
	if len(raw) != 1 {
		return "", false
	}
	return string(util.TrimSP(raw[0])), true
}
