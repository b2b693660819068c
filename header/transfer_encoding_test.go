package header_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httpwire/header"
)

func TestTransferEncoding_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.TransferEncoding
		want string
	}{
		{"nil", nil, ""},
		{"empty", header.TransferEncoding{}, "Transfer-Encoding: "},
		{"chunked", header.TransferEncoding{header.CodingChunked}, "Transfer-Encoding: chunked"},
		{
			"full",
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			"Transfer-Encoding: gzip, chunked",
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

func TestTransferEncoding_RenderTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		hdr     header.TransferEncoding
		wantRes string
		wantErr error
	}{
		{"nil", nil, "", nil},
		{"empty", header.TransferEncoding{}, "Transfer-Encoding: ", nil},
		{
			"full",
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			"Transfer-Encoding: gzip, chunked",
			nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			var sb strings.Builder
			_, err := c.hdr.RenderTo(&sb, nil)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("hdr.RenderTo(sb, nil) error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if got := sb.String(); got != c.wantRes {
				t.Errorf("sb.String() = %q, want %q", got, c.wantRes)
			}
		})
	}
}

func TestTransferEncoding_IsChunked(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.TransferEncoding
		want bool
	}{
		{"nil", nil, false},
		{"identity", header.TransferEncoding{header.CodingIdentity}, false},
		{"chunked", header.TransferEncoding{header.CodingChunked}, true},
		{"gzip chunked", header.TransferEncoding{header.CodingGzip, header.CodingChunked}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.IsChunked(); got != c.want {
				t.Errorf("hdr.IsChunked() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTransferEncoding_Decode(t *testing.T) {
	t.Parallel()

	codec, ok := header.Default().Lookup("Transfer-Encoding")
	if !ok {
		t.Fatal("no codec registered for Transfer-Encoding")
	}

	cases := []struct {
		name    string
		raw     []string
		wantHdr header.Header
		wantErr error
	}{
		{"single", []string{"chunked"}, header.TransferEncoding{header.CodingChunked}, nil},
		{
			"list",
			[]string{"gzip, chunked"},
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			nil,
		},
		{
			"multi line",
			[]string{"gzip", "chunked"},
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			nil,
		},
		{
			"mixed case",
			[]string{"GZip, Chunked"},
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			nil,
		},
		{
			"duplicates keep first",
			[]string{"chunked, gzip, CHUNKED"},
			header.TransferEncoding{header.CodingChunked, header.CodingGzip},
			nil,
		},
		{"empty", []string{""}, nil, cmpopts.AnyError},
		{"commas only", []string{", ,"}, nil, cmpopts.AnyError},
		{"unknown coding", []string{"gzip, br"}, nil, cmpopts.AnyError},
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

func TestTransferEncoding_Decode_errorDetails(t *testing.T) {
	t.Parallel()

	codec, ok := header.Default().Lookup("Transfer-Encoding")
	if !ok {
		t.Fatal("no codec registered for Transfer-Encoding")
	}

	cases := []struct {
		name       string
		raw        []string
		wantReason string
	}{
		{"empty", []string{""}, header.ReasonEmptyValue},
		{"unknown coding", []string{"br"}, header.ReasonInvalidValue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.Decode(c.raw)
			var mErr *header.MalformedValueError
			if !errors.As(err, &mErr) {
				t.Fatalf("codec.Decode(%v) error = %v, want *header.MalformedValueError", c.raw, err)
			}
			if mErr.Name != "Transfer-Encoding" {
				t.Errorf("mErr.Name = %q, want %q", mErr.Name, "Transfer-Encoding")
			}
			if diff := cmp.Diff(mErr.Raw, c.raw); diff != "" {
				t.Errorf("mErr.Raw = %v, want %v\ndiff (-got +want):\n%v", mErr.Raw, c.raw, diff)
			}
			if mErr.Reason != c.wantReason {
				t.Errorf("mErr.Reason = %q, want %q", mErr.Reason, c.wantReason)
			}
		})
	}
}

func TestTransferEncoding_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.TransferEncoding
		val  any
		want bool
	}{
		{"nil to nil", nil, header.TransferEncoding(nil), true},
		{
			"equal",
			header.TransferEncoding{header.CodingChunked},
			header.TransferEncoding{header.CodingChunked},
			true,
		},
		{
			"different order",
			header.TransferEncoding{header.CodingGzip, header.CodingChunked},
			header.TransferEncoding{header.CodingChunked, header.CodingGzip},
			false,
		},
		{"other type", header.TransferEncoding{header.CodingChunked}, "chunked", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Equal(c.val); got != c.want {
				t.Errorf("hdr.Equal(%v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}
