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

// Vary represents the Vary header field: either the wildcard "*" or the list
// of request header names the response varies on. The wildcard is mutually
// exclusive with any concrete name list.
type Vary struct {
	Wildcard bool
	Names    []Name
}

// VaryAll returns the wildcard Vary header.
func VaryAll() *Vary { return &Vary{Wildcard: true} }

// VaryOn returns a Vary header listing the given request header names.
func VaryOn(names ...Name) *Vary {
	return &Vary{Names: lo.Map(names, func(n Name, _ int) Name { return CanonicName(n) })}
}

// CanonicName returns the canonical name of the header.
func (*Vary) CanonicName() Name { return "Vary" }

// RenderTo writes the header to the provided writer.
func (hdr *Vary) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr *Vary) renderValueTo(w io.Writer) (num int, err error) {
	if hdr.Wildcard {
		return errtrace.Wrap2(fmt.Fprint(w, "*"))
	}
	return errtrace.Wrap2(renderHdrEntries(w, hdr.Names))
}

// Render returns the string representation of the header.
func (hdr *Vary) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr *Vary) RenderValue() string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr *Vary) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Vary) Format(f fmt.State, verb rune) {
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
		type hideMethods Vary
		type Vary hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Vary)(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr *Vary) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	hdr2.Names = slices.Clone(hdr.Names)
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Vary) Equal(val any) bool {
	var other *Vary
	switch v := val.(type) {
	case Vary:
		other = &v
	case *Vary:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return hdr.Wildcard == other.Wildcard &&
		slices.EqualFunc(hdr.Names, other.Names, func(n1, n2 Name) bool { return n1.Equal(n2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Vary) IsValid() bool {
	if hdr == nil {
		return false
	}
	if hdr.Wildcard {
		return len(hdr.Names) == 0
	}
	return len(hdr.Names) > 0 && !slices.ContainsFunc(hdr.Names, func(n Name) bool { return !n.IsValid() })
}

func (hdr *Vary) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

var zeroVary Vary

func (hdr *Vary) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = zeroVary
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(*Vary)
	if !ok {
		*hdr = zeroVary
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, hdr))
	}

	*hdr = *h
	return nil
}

func parseVary(raw []string) (Header, error) {
	tokens := dedupeTokens(listTokens(raw))
	if len(tokens) == 0 {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Vary", Reason: ReasonEmptyValue})
	}

	wildcard := slices.Contains(tokens, "*")
	if wildcard {
		if len(tokens) > 1 {
			return nil, errtrace.Wrap(&MalformedValueError{Name: "Vary", Reason: ReasonWildcardMix})
		}
		return VaryAll(), nil
	}

	h := &Vary{Names: make([]Name, len(tokens))}
	for i, tok := range tokens {
		name := CanonicName(tok)
		if !name.IsValid() {
			return nil, errtrace.Wrap(&MalformedValueError{Name: "Vary", Reason: ReasonInvalidValue})
		}
		h.Names[i] = name
	}
	return h, nil
}
