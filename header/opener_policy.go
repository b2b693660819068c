package header

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/samber/lo"

	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/util"
)

// CrossOriginOpenerPolicy represents the Cross-Origin-Opener-Policy header field.
type CrossOriginOpenerPolicy string

// Cross-Origin-Opener-Policy values recognized by the codec.
const (
	OpenerPolicySameOrigin            CrossOriginOpenerPolicy = "same-origin"
	OpenerPolicySameOriginAllowPopups CrossOriginOpenerPolicy = "same-origin-allow-popups"
	OpenerPolicyUnsafeNone            CrossOriginOpenerPolicy = "unsafe-none"
)

var knownOpenerPolicies = []CrossOriginOpenerPolicy{
	OpenerPolicySameOrigin,
	OpenerPolicySameOriginAllowPopups,
	OpenerPolicyUnsafeNone,
}

// CanonicName returns the canonical name of the header.
func (CrossOriginOpenerPolicy) CanonicName() Name { return "Cross-Origin-Opener-Policy" }

// RenderTo writes the header to the provided writer.
func (hdr CrossOriginOpenerPolicy) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(fmt.Fprint(w, renderName(hdr.CanonicName(), opts), ": ", hdr.RenderValue()))
}

// Render returns the string representation of the header.
func (hdr CrossOriginOpenerPolicy) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr CrossOriginOpenerPolicy) RenderValue() string { return string(hdr) }

func (hdr CrossOriginOpenerPolicy) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr CrossOriginOpenerPolicy) Format(f fmt.State, verb rune) {
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
		type hideMethods CrossOriginOpenerPolicy
		type CrossOriginOpenerPolicy hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), CrossOriginOpenerPolicy(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr CrossOriginOpenerPolicy) Clone() Header { return hdr }

// Equal compares this header with another for equality.
func (hdr CrossOriginOpenerPolicy) Equal(val any) bool {
	var other CrossOriginOpenerPolicy
	switch v := val.(type) {
	case CrossOriginOpenerPolicy:
		other = v
	case *CrossOriginOpenerPolicy:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(hdr, other)
}

// IsValid checks whether the header belongs to the recognized policy set.
func (hdr CrossOriginOpenerPolicy) IsValid() bool {
	return lo.ContainsBy(knownOpenerPolicies, func(p CrossOriginOpenerPolicy) bool { return util.EqFold(hdr, p) })
}

func (hdr CrossOriginOpenerPolicy) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

func (hdr *CrossOriginOpenerPolicy) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = ""
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(CrossOriginOpenerPolicy)
	if !ok {
		*hdr = ""
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, *hdr))
	}

	*hdr = h
	return nil
}

func parseCrossOriginOpenerPolicy(raw []string) (Header, error) {
	v, ok := singleValue(raw)
	if !ok {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Cross-Origin-Opener-Policy", Reason: ReasonInvalidValue})
	}
	if v == "" {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Cross-Origin-Opener-Policy", Reason: ReasonEmptyValue})
	}

	h := CrossOriginOpenerPolicy(util.LCase(v))
	if !h.IsValid() {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Cross-Origin-Opener-Policy", Reason: ReasonInvalidValue})
	}
	return h, nil
}
