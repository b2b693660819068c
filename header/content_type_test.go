package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httpwire/header"
)

func TestContentType_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.ContentType
		want string
	}{
		{"nil", nil, ""},
		{"plain", header.NewContentType("text/html"), "Content-Type: text/html"},
		{
			"with params",
			header.NewContentType("text/html; charset=utf-8"),
			"Content-Type: text/html;charset=utf-8",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Render(nil); got != c.want {
				t.Errorf("hdr.Render(nil) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestContentType_Decode(t *testing.T) {
	t.Parallel()

	codec, ok := header.Default().Lookup("Content-Type")
	if !ok {
		t.Fatal("no codec registered for Content-Type")
	}

	cases := []struct {
		name    string
		raw     []string
		wantHdr header.Header
		wantErr error
	}{
		{"plain", []string{"application/json"}, header.NewContentType("application/json"), nil},
		{
			"with params",
			[]string{"text/html; charset=utf-8"},
			header.NewContentType("text/html; charset=utf-8"),
			nil,
		},
		{
			"mixed case",
			[]string{"Text/HTML"},
			header.NewContentType("text/html"),
			nil,
		},
		{"empty", []string{""}, nil, cmpopts.AnyError},
		{"no subtype", []string{"text"}, nil, cmpopts.AnyError},
		{"two lines", []string{"text/html", "text/plain"}, nil, cmpopts.AnyError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := codec.Decode(c.raw)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("codec.Decode(%v) error = %v, want %v\ndiff (-got +want):\n%v", c.raw, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(hdr, c.wantHdr); diff != "" {
				t.Errorf("codec.Decode(%v) = %v, want %v\ndiff (-got +want):\n%v", c.raw, hdr, c.wantHdr, diff)
			}
		})
	}
}

func TestContentType_IsMultipartByteranges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.ContentType
		want bool
	}{
		{"nil", nil, false},
		{"html", header.NewContentType("text/html"), false},
		{"multipart form", header.NewContentType("multipart/form-data"), false},
		{
			"byteranges",
			header.NewContentType("multipart/byteranges; boundary=THIS_STRING_SEPARATES"),
			true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.IsMultipartByteranges(); got != c.want {
				t.Errorf("hdr.IsMultipartByteranges() = %v, want %v", got, c.want)
			}
		})
	}
}
