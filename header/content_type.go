package header

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"strconv"

	"braces.dev/errtrace"
	"github.com/elnormous/contenttype"

	"github.com/ghettovoice/httpwire/internal/errorutil"
	"github.com/ghettovoice/httpwire/internal/ioutil"
	"github.com/ghettovoice/httpwire/internal/util"
)

// ContentType represents the Content-Type header field.
type ContentType struct {
	contenttype.MediaType
}

// NewContentType parses a media type string into a ContentType header.
// The zero ContentType is returned for malformed input.
func NewContentType(mediaType string) *ContentType {
	return &ContentType{contenttype.NewMediaType(mediaType)}
}

// CanonicName returns the canonical name of the header.
func (*ContentType) CanonicName() Name { return "Content-Type" }

// IsMultipartByteranges reports whether the media type is the self-delimiting
// multipart/byteranges form.
func (hdr *ContentType) IsMultipartByteranges() bool {
	return hdr != nil && util.EqFold(hdr.Type, "multipart") && util.EqFold(hdr.Subtype, "byteranges")
}

// RenderTo writes the header to the provided writer.
func (hdr *ContentType) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(renderName(hdr.CanonicName(), opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (hdr *ContentType) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(fmt.Fprint(w, hdr.MediaType.String()))
}

// Render returns the string representation of the header.
func (hdr *ContentType) Render(opts *RenderOptions) string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderValue returns the header value without the name prefix.
func (hdr *ContentType) RenderValue() string {
	if hdr == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (hdr *ContentType) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ContentType) Format(f fmt.State, verb rune) {
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
		type hideMethods ContentType
		type ContentType hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*ContentType)(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr *ContentType) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	hdr2.Parameters = maps.Clone(hdr.Parameters)
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *ContentType) Equal(val any) bool {
	var other *ContentType
	switch v := val.(type) {
	case ContentType:
		other = &v
	case *ContentType:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return util.EqFold(hdr.Type, other.Type) &&
		util.EqFold(hdr.Subtype, other.Subtype) &&
		maps.Equal(hdr.Parameters, other.Parameters)
}

// IsValid checks whether the header is syntactically valid.
func (hdr *ContentType) IsValid() bool {
	return hdr != nil && hdr.Type != "" && hdr.Subtype != ""
}

func (hdr *ContentType) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(ToJSON(hdr))
}

var zeroContentType ContentType

func (hdr *ContentType) UnmarshalJSON(data []byte) error {
	gh, err := FromJSON(data)
	if err != nil {
		*hdr = zeroContentType
		if errors.Is(err, errNotHeaderJSON) {
			return nil
		}
		return errtrace.Wrap(err)
	}

	h, ok := gh.(*ContentType)
	if !ok {
		*hdr = zeroContentType
		return errtrace.Wrap(errorutil.Errorf("unexpected header: got %T, want %T", gh, hdr))
	}

	*hdr = *h
	return nil
}

func parseContentType(raw []string) (Header, error) {
	v, ok := singleValue(raw)
	if !ok {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Content-Type", Reason: ReasonInvalidValue})
	}
	if v == "" {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Content-Type", Reason: ReasonEmptyValue})
	}

	h := NewContentType(v)
	if !h.IsValid() {
		return nil, errtrace.Wrap(&MalformedValueError{Name: "Content-Type", Reason: ReasonInvalidValue})
	}
	return h, nil
}
