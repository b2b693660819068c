package header

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/util"
)

// Date represents the Date header field.
type Date struct {
	time.Time
}

// CanonicName returns the canonical name of the header.
func (*Date) CanonicName() Name { return "Date" }

// RenderTo writes the header to the provided writer.
func (hdr *Date) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr *Date) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(fmt.Fprint(w, hdr.UTC().Format(http.TimeFormat)))
}

// Render returns the string representation of the header.
func (hdr *Date) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr *Date) RenderValue() string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr *Date) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Date) Format(f fmt.State, verb rune) {
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
		type hideMethods Date
		type Date hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Date)(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr *Date) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Date) Equal(val any) bool {
	var other *Date
	switch v := val.(type) {
	case Date:
		other = &v
	case *Date:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return hdr.Time.Equal(other.Time)
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Date) IsValid() bool { return hdr != nil && !hdr.IsZero() }

func (hdr *Date) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

var zeroDate Date

func (hdr *Date) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = zeroDate
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(*Date)
	if !ok {
		*hdr = zeroDate
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, hdr))
	}

	*hdr = *h
	return nil
}

func parseDate(raw []string) (Header, error) {
	t, err := parseHTTPDate("Date", raw)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Date{t}, nil
}

// parseHTTPDate parses a single-valued HTTP-date header accepting the three
// formats of RFC 9110 section 5.6.7 and normalizing to UTC.
func parseHTTPDate(name Name, raw []string) (time.Time, error) {
	v, ok := singleValue(raw)
	if !ok {
		return time.Time{}, errtrace.Wrap(&MalformedValueError{Name: name, Reason: ReasonInvalidValue})
	}
	if v == "" {
		return time.Time{}, errtrace.Wrap(&MalformedValueError{Name: name, Reason: ReasonEmptyValue})
	}

	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}, errtrace.Wrap(&MalformedValueError{Name: name, Reason: ReasonInvalidValue})
	}
	return t.UTC(), nil
}
