package header_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httpwire/header"
)

func TestDate_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  *header.Date
		want string
	}{
		{"nil", nil, ""},
		{"zero", &header.Date{}, "Date: "},
		{
			"full",
			&header.Date{Time: time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)},
			"Date: Wed, 21 Oct 2015 07:28:00 GMT",
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

func TestDate_Decode(t *testing.T) {
	t.Parallel()

	codec, ok := header.Default().Lookup("Date")
	if !ok {
		t.Fatal("no codec registered for Date")
	}

	wantTime := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)

	cases := []struct {
		name    string
		raw     []string
		wantHdr header.Header
		wantErr error
	}{
		{"imf fixdate", []string{"Wed, 21 Oct 2015 07:28:00 GMT"}, &header.Date{Time: wantTime}, nil},
		{"rfc 850", []string{"Wednesday, 21-Oct-15 07:28:00 GMT"}, &header.Date{Time: wantTime}, nil},
		{"asctime", []string{"Wed Oct 21 07:28:00 2015"}, &header.Date{Time: wantTime}, nil},
		{"empty", []string{""}, nil, cmpopts.AnyError},
		{"garbage", []string{"yesterday"}, nil, cmpopts.AnyError},
		{"unix timestamp", []string{"1445412480"}, nil, cmpopts.AnyError},
		{"two lines", []string{"Wed, 21 Oct 2015 07:28:00 GMT", "Wed, 21 Oct 2015 07:28:00 GMT"}, nil, cmpopts.AnyError},
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

func TestDate_Equal(t *testing.T) {
	t.Parallel()

	ts := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)

	cases := []struct {
		name string
		hdr  *header.Date
		val  any
		want bool
	}{
		{"nil to nil", nil, (*header.Date)(nil), true},
		{"equal", &header.Date{Time: ts}, &header.Date{Time: ts}, true},
		{"equal other zone", &header.Date{Time: ts}, &header.Date{Time: ts.In(time.FixedZone("X", 3600))}, true},
		{"different", &header.Date{Time: ts}, &header.Date{Time: ts.Add(time.Second)}, false},
		{"other type", &header.Date{Time: ts}, ts, false},
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
