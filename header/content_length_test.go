package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httpwire/header"
)

func TestContentLength_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.ContentLength
		want string
	}{
		{"zero", header.ContentLength(0), "Content-Length: 0"},
		{"full", header.ContentLength(1024), "Content-Length: 1024"},
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

func TestContentLength_Decode(t *testing.T) {
	t.Parallel()

	codec, ok := header.Default().Lookup("Content-Length")
	if !ok {
		t.Fatal("no codec registered for Content-Length")
	}

	cases := []struct {
		name    string
		raw     []string
		wantHdr header.Header
		wantErr error
	}{
		{"zero", []string{"0"}, header.ContentLength(0), nil},
		{"full", []string{"1024"}, header.ContentLength(1024), nil},
		{"padded", []string{" 42 "}, header.ContentLength(42), nil},
		{"empty", []string{""}, nil, cmpopts.AnyError},
		{"negative", []string{"-1"}, nil, cmpopts.AnyError},
		{"not a number", []string{"ten"}, nil, cmpopts.AnyError},
		{"two lines", []string{"42", "42"}, nil, cmpopts.AnyError},
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
