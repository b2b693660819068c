package header

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/samber/lo"

	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/util"
)

// TransferEncoding represents the Transfer-Encoding header field.
// It lists the transfer codings applied to the message body in order.
type TransferEncoding []Coding

// CanonicName returns the canonical name of the header.
func (TransferEncoding) CanonicName() Name { return "Transfer-Encoding" }

// IsChunked reports whether the coding list contains the chunked coding.
func (hdr TransferEncoding) IsChunked() bool {
	return slices.ContainsFunc(hdr, func(c Coding) bool { return util.EqFold(c, CodingChunked) })
}

// RenderTo writes the header to the provided writer.
func (hdr TransferEncoding) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr TransferEncoding) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr TransferEncoding) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr TransferEncoding) RenderValue() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr TransferEncoding) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr TransferEncoding) Format(f fmt.State, verb rune) {
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
		type hideMethods TransferEncoding
		type TransferEncoding hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), TransferEncoding(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr TransferEncoding) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr TransferEncoding) Equal(val any) bool {
	var other TransferEncoding
	switch v := val.(type) {
	case TransferEncoding:
		other = v
	case *TransferEncoding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(c1, c2 Coding) bool { return c1.Equal(c2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr TransferEncoding) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(c Coding) bool { return !c.IsValid() })
}

func (hdr TransferEncoding) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *TransferEncoding) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = nil
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(TransferEncoding)
	if !ok {
		*hdr = nil
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, *hdr))
	}

	*hdr = h
	return nil
}

func parseTransferEncoding(raw []string) (Header, error) {
	tokens := dedupeTokens(listTokens(raw))
	if len(tokens) == 0 {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Transfer-Encoding", Reason: ReasonEmptyValue})
	}

	h := make(TransferEncoding, len(tokens))
	for i, tok := range tokens {
		c := Coding(util.LCase(tok))
		if !c.IsValid() {
			return nil, errtrace.Wrap(&MalformedValueError{Name: "Transfer-Encoding", Reason: ReasonInvalidValue})
		}
		h[i] = c
	}
	return h, nil
}

// Coding represents a single transfer coding token.
type Coding string

// Transfer codings recognized by the Transfer-Encoding codec.
const (
	CodingChunked  Coding = "chunked"
	CodingGzip     Coding = "gzip"
	CodingDeflate  Coding = "deflate"
	CodingCompress Coding = "compress"
	CodingIdentity Coding = "identity"
)

var knownCodings = []Coding{CodingChunked, CodingGzip, CodingDeflate, CodingCompress, CodingIdentity}

// IsValid checks whether the coding belongs to the recognized set.
func (c Coding) IsValid() bool {
	return lo.ContainsBy(knownCodings, func(k Coding) bool { return util.EqFold(c, k) })
}

// Equal compares this coding with another for equality.
func (c Coding) Equal(val any) bool {
	var other Coding
	switch v := val.(type) {
	case Coding:
		other = v
	case *Coding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(c, other)
}
