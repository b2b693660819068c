// Package httpwire provides a typed model of HTTP message headers and an
// HTTP/1.1 response framing engine.
//
// Raw wire header lines are held verbatim in a [Headers] container and
// decoded into typed values lazily through a codec registry, with the decode
// result memoized per header. A strict container aborts on the first
// malformed value; a lenient one records failures as diagnostics and reports
// the value as absent. Containers are immutable: mutation happens through
// [Headers.Transform], which re-encodes typed values into raw lines and
// returns an independent instance.
//
// The [Engine] finalizes outbound headers before serialization, choosing
// between Content-Length and chunked Transfer-Encoding per the HTTP/1.1
// message-length rules.
//
// The subpackages carry the full API: [header] for typed headers and codecs,
// [message] for the container and builder, [framing] for the engine. The
// root package re-exports the core types for simple integrations.
//
// [header]: github.com/ghettovoice/httpwire/header
// [message]: github.com/ghettovoice/httpwire/message
// [framing]: github.com/ghettovoice/httpwire/framing
package httpwire
