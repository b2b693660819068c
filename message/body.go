package message

import (
	"fmt"
	"strconv"

	"github.com/elnormous/contenttype"
)

// Body describes the payload of an outbound message for framing purposes:
// whether its total length is known up front and what media type it carries.
// It deliberately holds no payload bytes. Any content codings already applied
// to the payload are declared by the message headers, not here.
type Body struct {
	length int64
	sized  bool
	mtype  contenttype.MediaType
}

// SizedBody describes a payload whose total length is known before sending.
func SizedBody(length int64, mediaType contenttype.MediaType) Body {
	if length < 0 {
		length = 0
	}
	return Body{length: length, sized: true, mtype: mediaType}
}

// StreamingBody describes a payload whose total length is unknown until it
// has been fully produced.
func StreamingBody(mediaType contenttype.MediaType) Body {
	return Body{mtype: mediaType}
}

// NoBody describes the absence of a payload.
func NoBody() Body {
	return Body{sized: true}
}

// Len returns the payload length and whether it is known up front.
func (b Body) Len() (int64, bool) { return b.length, b.sized }

// MediaType returns the declared media type of the payload.
// The zero value means no media type was declared.
func (b Body) MediaType() contenttype.MediaType { return b.mtype }

// IsMultipartByteranges reports whether the payload carries a
// multipart/byteranges media type, which delimits its own end.
func (b Body) IsMultipartByteranges() bool {
	return b.mtype.Type == "multipart" && b.mtype.Subtype == "byteranges"
}

func (b Body) String() string {
	sz := "streaming"
	if b.sized {
		sz = strconv.FormatInt(b.length, 10) + " bytes"
	}
	mt := b.mtype.String()
	if mt == "" {
		return sz
	}
	return fmt.Sprintf("%s of %s", sz, mt)
}
