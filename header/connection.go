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

// Connection represents the Connection header field.
// It lists connection options and the names of hop-by-hop headers.
type Connection []string

// CanonicName returns the canonical name of the header.
func (Connection) CanonicName() Name { return "Connection" }

// IsClose reports whether the option list contains the close option.
func (hdr Connection) IsClose() bool {
	return slices.ContainsFunc(hdr, func(opt string) bool { return util.EqFold(opt, "close") })
}

// IsKeepAlive reports whether the option list contains the keep-alive option.
func (hdr Connection) IsKeepAlive() bool {
	return slices.ContainsFunc(hdr, func(opt string) bool { return util.EqFold(opt, "keep-alive") })
}

// RenderTo writes the header to the provided writer.
func (hdr Connection) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr Connection) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Connection) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr Connection) RenderValue() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr Connection) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Connection) Format(f fmt.State, verb rune) {
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
		type hideMethods Connection
		type Connection hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Connection(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr Connection) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr Connection) Equal(val any) bool {
	var other Connection
	switch v := val.(type) {
	case Connection:
		other = v
	case *Connection:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, util.EqFold)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Connection) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(opt string) bool { return !grammar.IsToken(opt) })
}

func (hdr Connection) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *Connection) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = nil
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(Connection)
	if !ok {
		*hdr = nil
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, *hdr))
	}

	*hdr = h
	return nil
}

func parseConnection(raw []string) (Header, error) {
	tokens := dedupeTokens(listTokens(raw))
	if len(tokens) == 0 {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Connection", Reason: ReasonEmptyValue})
	}

	h := make(Connection, len(tokens))
	for i, tok := range tokens {
		if !grammar.IsToken(tok) {
			return nil, errtrace.Wrap(&MalformedValueError{Name: "Connection", Reason: ReasonInvalidValue})
		}
		h[i] = string(util.LCase(tok))
	}
	return h, nil
}
