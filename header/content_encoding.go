package header

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/grammar"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/util"
)

// ContentEncoding represents the Content-Encoding header field.
// It lists the content codings applied to the representation in order.
type ContentEncoding []Encoding

// CanonicName returns the canonical name of the header.
func (ContentEncoding) CanonicName() Name { return "Content-Encoding" }

// RenderTo writes the header to the provided writer.
func (hdr ContentEncoding) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr ContentEncoding) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr ContentEncoding) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr ContentEncoding) RenderValue() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr ContentEncoding) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentEncoding) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			hdr.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(hdr.Render(nil)))
			return
		}
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods ContentEncoding
		type ContentEncoding hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ContentEncoding(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr ContentEncoding) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr ContentEncoding) Equal(val any) bool {
	var other ContentEncoding
	switch v := val.(type) {
	case ContentEncoding:
		other = v
	case *ContentEncoding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(e1, e2 Encoding) bool { return e1.Equal(e2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr ContentEncoding) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(e Encoding) bool { return !e.IsValid() })
}

func (hdr ContentEncoding) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *ContentEncoding) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = nil
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(ContentEncoding)
	if !ok {
		*hdr = nil
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, *hdr))
	}

	*hdr = h
	return nil
}

func parseContentEncoding(raw []string) (Header, error) {
	tokens := dedupeTokens(listTokens(raw))
	if len(tokens) == 0 {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Content-Encoding", Reason: ReasonEmptyValue})
	}

	h := make(ContentEncoding, len(tokens))
	for i, tok := range tokens {
		if !grammar.IsToken(tok) {
			return nil, errtrace.Wrap(&MalformedValueError{Name: "Content-Encoding", Reason: ReasonInvalidValue})
		}
		h[i] = Encoding(util.LCase(tok))
	}
	return h, nil
}

// Encoding represents a single content coding token.
type Encoding string

// IsValid checks whether the encoding is a syntactically valid token.
func (enc Encoding) IsValid() bool { return grammar.IsToken(enc) }

// Equal compares this encoding with another for equality.
func (enc Encoding) Equal(val any) bool {
	var other Encoding
	switch v := val.(type) {
	case Encoding:
		other = v
	case *Encoding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(enc, other)
}
