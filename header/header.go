package header

//go:generate go tool errtrace -w .

import (
	"encoding/json"
	"fmt"
	"io"
	"net/textproto"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpwire/internal/constraints"
	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/grammar"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/types"
	"github.com/ghettovoice/httpwire/internal/util"
)

// RenderOptions contains options for rendering headers.
type RenderOptions = types.RenderOptions

// Header represents a typed HTTP header value.
type Header interface {
	types.Renderer
	types.Cloneable[Header]
	types.ValidFlag
	types.Equalable
	CanonicName() Name
	RenderValue() string
}

// Name represents an HTTP header field name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

var hdrNames = map[string]Name{
	"Content-Md5":      "Content-MD5",
	"Etag":             "ETag",
	"Te":               "TE",
	"Www-Authenticate": "WWW-Authenticate",
	"X-Xss-Protection": "X-XSS-Protection",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen
// to upper case; the rest are converted to lowercase. For example, the canonical
// name for "transfer-encoding" is "Transfer-Encoding". Names whose canonical form
// deviates from that rule ("ETag", "WWW-Authenticate", ...) are mapped through an
// override table.
func CanonicName[T ~string](name T) Name {
	name = util.TrimSP(name)
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}

	name = T(textproto.CanonicalMIMEHeaderKey(string(name)))
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}
	return Name(name)
}

func renderName(n Name, opts *RenderOptions) Name {
	if opts != nil && opts.Lower {
		return util.LCase(n)
	}
	return n
}

func renderHdrEntries[H ~[]E, E any](w io.Writer, hdr H) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i := range hdr {
		if i > 0 {
			cw.Fprint(", ")
		}
		cw.Fprint(hdr[i])
	}
	return errtrace.Wrap2(cw.Result())
}

// Parse parses a single HTTP header line (without the trailing CRLF) into a
// typed header using the given registry. A nil registry falls back to
// [Default]. Names without a registered codec produce [*Any].
//
// Example usage:
//
//	hdr, err := header.Parse("Transfer-Encoding: gzip, chunked", nil)
func Parse[T constraints.Byteseq](s T, reg *Registry) (Header, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(grammar.ErrEmptyInput)
	}
	name, value, ok := strings.Cut(string(s), ":")
	if !ok {
		return nil, errtrace.Wrap(grammar.ErrMalformedInput)
	}
	name = string(util.TrimSP(name))
	if !grammar.IsToken(name) {
		return nil, errtrace.Wrap(grammar.ErrMalformedInput)
	}
	value = string(util.TrimSP(value))
	if !grammar.IsFieldValue(value) {
		return nil, errtrace.Wrap(grammar.ErrMalformedInput)
	}

	if reg == nil {
		reg = Default()
	}
	cn := CanonicName(name)
	if c, ok := reg.Lookup(cn); ok {
		return errtrace.Wrap2(c.Decode([]string{value}))
	}
	return &Any{Name: name, Value: value}, nil
}

type headerData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func ToJSON(hdr Header) ([]byte, error) {
	var hd *headerData
	if hdr != nil {
		hd = &headerData{
			Name:  string(hdr.CanonicName()),
			Value: hdr.RenderValue(),
		}
	}
	return errtrace.Wrap2(json.Marshal(hd))
}

var errNotHeaderJSON errorutil.Error = "not a header JSON"

func FromJSON[T constraints.Byteseq](data T) (Header, error) {
	var hd *headerData
	if err := json.Unmarshal([]byte(data), &hd); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if hd == nil {
		return nil, errtrace.Wrap(errNotHeaderJSON)
	}

	hdr, err := Parse(hd.Name+": "+hd.Value, nil)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("parse header %q: %w", hd.Name, err))
	}
	return hdr, nil
}
