package framing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpwire/framing"
	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/message"
)

var testClock = func() time.Time {
	return time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
}

const testDate = "Wed, 21 Oct 2015 07:28:00 GMT"

func htmlType() contenttype.MediaType {
	return contenttype.NewMediaType("text/html")
}

func TestStatusHasBody(t *testing.T) {
	t.Parallel()

	for _, status := range []int{100, 101, 102, 103, 204, 304} {
		if framing.StatusHasBody(status) {
			t.Errorf("StatusHasBody(%d) = true, want false", status)
		}
	}
	for _, status := range []int{200, 201, 301, 400, 404, 500} {
		if !framing.StatusHasBody(status) {
			t.Errorf("StatusHasBody(%d) = false, want true", status)
		}
	}
}

func TestEngine_Finalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     map[string][]string
		body    message.Body
		status  int
		wantRaw map[string][]string
	}{
		{
			"no body status strips framing headers",
			map[string][]string{
				"Content-Length":    {"42"},
				"Transfer-Encoding": {"chunked"},
				"X-Request-Id":      {"abc"},
			},
			message.NoBody(),
			304,
			map[string][]string{
				"X-Request-Id": {"abc"},
				"Date":         {testDate},
			},
		},
		{
			"no body status with zero length body",
			map[string][]string{},
			message.SizedBody(0, htmlType()),
			204,
			map[string][]string{"Date": {testDate}},
		},
		{
			"multipart byteranges passes through",
			map[string][]string{"Content-Type": {"multipart/byteranges; boundary=SEP"}},
			message.StreamingBody(contenttype.NewMediaType("multipart/byteranges; boundary=SEP")),
			206,
			map[string][]string{
				"Content-Type": {"multipart/byteranges; boundary=SEP"},
				"Date":         {testDate},
			},
		},
		{
			"known length sets content length",
			map[string][]string{"Transfer-Encoding": {"chunked"}},
			message.SizedBody(42, htmlType()),
			200,
			map[string][]string{
				"Content-Length": {"42"},
				"Date":           {testDate},
			},
		},
		{
			"unknown length appends chunked",
			map[string][]string{},
			message.StreamingBody(htmlType()),
			200,
			map[string][]string{
				"Transfer-Encoding": {"chunked"},
				"Date":              {testDate},
			},
		},
		{
			"existing chunked left alone",
			map[string][]string{"Transfer-Encoding": {"gzip, chunked"}},
			message.StreamingBody(htmlType()),
			200,
			map[string][]string{
				"Transfer-Encoding": {"gzip, chunked"},
				"Date":              {testDate},
			},
		},
		{
			"lone identity opts out",
			map[string][]string{"Transfer-Encoding": {"identity"}},
			message.StreamingBody(htmlType()),
			200,
			map[string][]string{
				"Transfer-Encoding": {"identity"},
				"Date":              {testDate},
			},
		},
		{
			"other codings get chunked appended",
			map[string][]string{"Transfer-Encoding": {"gzip"}},
			message.StreamingBody(htmlType()),
			200,
			map[string][]string{
				"Transfer-Encoding": {"gzip, chunked"},
				"Date":              {testDate},
			},
		},
		{
			"caller date kept",
			map[string][]string{"Date": {"Thu, 22 Oct 2015 07:28:00 GMT"}},
			message.SizedBody(0, htmlType()),
			200,
			map[string][]string{
				"Date":           {"Thu, 22 Oct 2015 07:28:00 GMT"},
				"Content-Length": {"0"},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			e := framing.New(framing.WithClock(testClock))
			hs, err := e.Finalize(message.FromWire(c.raw), c.body, c.status)
			if err != nil {
				t.Fatalf("e.Finalize() error = %v, want nil", err)
			}

			got := map[string][]string{}
			for _, name := range hs.Names() {
				got[string(name)] = hs.Raw(name)
			}
			if diff := cmp.Diff(got, c.wantRaw); diff != "" {
				t.Errorf("finalized headers = %v, want %v\ndiff (-got +want):\n%v", got, c.wantRaw, diff)
			}
		})
	}
}

func TestEngine_Finalize_precondition(t *testing.T) {
	t.Parallel()

	e := framing.New(framing.WithClock(testClock))
	hs := message.New()

	_, err := e.Finalize(hs, message.SizedBody(42, htmlType()), 204)

	var pErr *framing.PreconditionError
	if !errors.As(err, &pErr) {
		t.Fatalf("e.Finalize() error = %v, want *framing.PreconditionError", err)
	}
	if pErr.Status != 204 || pErr.Length != 42 {
		t.Errorf("pErr = %+v, want {Status: 204, Length: 42}", pErr)
	}
}

func TestEngine_Finalize_backfill(t *testing.T) {
	t.Parallel()

	e := framing.New(
		framing.WithClock(testClock),
		framing.WithServer("httpwire/0.0.0"),
		framing.WithPoweredBy("httpwire"),
	)

	t.Run("absent headers filled", func(t *testing.T) {
		t.Parallel()

		hs, err := e.Finalize(message.New(), message.SizedBody(0, htmlType()), 200)
		if err != nil {
			t.Fatalf("e.Finalize() error = %v, want nil", err)
		}

		if diff := cmp.Diff(hs.Raw("Date"), []string{testDate}); diff != "" {
			t.Errorf("hs.Raw(Date) diff (-got +want):\n%v", diff)
		}
		if diff := cmp.Diff(hs.Raw("Server"), []string{"httpwire/0.0.0"}); diff != "" {
			t.Errorf("hs.Raw(Server) diff (-got +want):\n%v", diff)
		}
		if diff := cmp.Diff(hs.Raw("X-Powered-By"), []string{"httpwire"}); diff != "" {
			t.Errorf("hs.Raw(X-Powered-By) diff (-got +want):\n%v", diff)
		}
	})

	t.Run("caller values kept", func(t *testing.T) {
		t.Parallel()

		src := message.FromWire(map[string][]string{
			"Server":       {"custom/1.0"},
			"X-Powered-By": {"magic"},
		})
		hs, err := e.Finalize(src, message.SizedBody(0, htmlType()), 200)
		if err != nil {
			t.Fatalf("e.Finalize() error = %v, want nil", err)
		}

		if diff := cmp.Diff(hs.Raw("Server"), []string{"custom/1.0"}); diff != "" {
			t.Errorf("hs.Raw(Server) diff (-got +want):\n%v", diff)
		}
		if diff := cmp.Diff(hs.Raw("X-Powered-By"), []string{"magic"}); diff != "" {
			t.Errorf("hs.Raw(X-Powered-By) diff (-got +want):\n%v", diff)
		}
	})
}

func TestEngine_Finalize_malformedTransferEncoding(t *testing.T) {
	t.Parallel()

	e := framing.New(framing.WithClock(testClock))
	raw := map[string][]string{"Transfer-Encoding": {"bogus;;"}}

	t.Run("strict aborts", func(t *testing.T) {
		t.Parallel()

		_, err := e.Finalize(message.FromWire(raw), message.StreamingBody(htmlType()), 200)

		var mErr *header.MalformedValueError
		if !errors.As(err, &mErr) {
			t.Fatalf("e.Finalize() error = %v, want *header.MalformedValueError", err)
		}
	})

	t.Run("lenient replaces with chunked", func(t *testing.T) {
		t.Parallel()

		hs, err := e.Finalize(
			message.FromWire(raw, message.WithMode(message.Lenient)),
			message.StreamingBody(htmlType()),
			200,
		)
		if err != nil {
			t.Fatalf("e.Finalize() error = %v, want nil", err)
		}

		if diff := cmp.Diff(hs.Raw("Transfer-Encoding"), []string{"chunked"}); diff != "" {
			t.Errorf("hs.Raw(Transfer-Encoding) diff (-got +want):\n%v", diff)
		}
	})
}
