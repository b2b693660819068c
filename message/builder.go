package message

import (
	"slices"

	"github.com/ghettovoice/httpwire/header"
	"github.com/ghettovoice/httpwire/internal/util"
)

// Transform applies fn to a mutable copy of the instance and returns the
// resulting Headers. The receiver is left untouched. Decode state of headers
// that fn does not touch is carried over to the result, so already decoded
// values are not decoded again.
func (hs *Headers) Transform(fn func(b *Builder)) *Headers {
	hs.mu.Lock()
	b := &Builder{
		hs:    New(WithMode(hs.mode), WithRegistry(hs.reg), WithLogger(hs.log)),
		names: slices.Clone(hs.names),
	}
	for name, vals := range hs.raw {
		b.hs.raw[name] = slices.Clone(vals)
	}
	for name, cl := range hs.cells {
		b.hs.cells[name] = cl
	}
	for name, vals := range hs.failed {
		b.hs.failed[name] = slices.Clone(vals)
	}
	hs.mu.Unlock()

	fn(b)

	b.hs.names = b.names
	out := b.hs
	b.hs = nil
	return out
}

// Builder is the mutable view of a [Headers] instance inside a
// [Headers.Transform] call. It must not be retained after the call returns.
type Builder struct {
	hs    *Headers
	names []header.Name
}

// Set encodes hdr through the registry codec of its name and stores the
// resulting raw values, replacing any previous ones. An empty or nil typed
// value removes the header entirely. Unregistered headers are stored as a
// single verbatim value line.
func (b *Builder) Set(hdr header.Header) *Builder {
	name := hdr.CanonicName()
	var vals []string
	if c, ok := b.hs.reg.Lookup(name); ok {
		vals = c.Encode(hdr)
	} else if hdr.IsValid() {
		vals = []string{hdr.RenderValue()}
	}
	if len(vals) == 0 {
		return b.Del(name)
	}
	b.put(name, vals)
	b.hs.cells[name] = cell{state: cellParsed, hdr: hdr}
	return b
}

// SetRaw stores raw value lines for the given header verbatim, replacing any
// previous ones and dropping the memoized decode state of the name. Passing
// no values removes the header.
func (b *Builder) SetRaw(name header.Name, values ...string) *Builder {
	name = header.CanonicName(name)
	if len(values) == 0 {
		return b.Del(name)
	}
	b.put(name, slices.Clone(values))
	delete(b.hs.cells, name)
	delete(b.hs.failed, string(util.LCase(name)))
	return b
}

// Del removes the header with the given name together with its decode state.
func (b *Builder) Del(name header.Name) *Builder {
	name = header.CanonicName(name)
	if _, ok := b.hs.raw[name]; ok {
		b.names = slices.DeleteFunc(b.names, func(n header.Name) bool { return n == name })
	}
	delete(b.hs.raw, name)
	delete(b.hs.cells, name)
	delete(b.hs.failed, string(util.LCase(name)))
	return b
}

// Has reports whether a header with the given name is currently present.
func (b *Builder) Has(name header.Name) bool {
	_, ok := b.hs.raw[header.CanonicName(name)]
	return ok
}

// Raw returns the current raw values of the given header.
func (b *Builder) Raw(name header.Name) []string {
	return slices.Clone(b.hs.raw[header.CanonicName(name)])
}

func (b *Builder) put(name header.Name, vals []string) {
	if _, ok := b.hs.raw[name]; !ok {
		b.names = append(b.names, name)
	}
	b.hs.raw[name] = vals
}
