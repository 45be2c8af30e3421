// Package header provides typed HTTP header fields defined by RFC 9110, RFC 9111
// and related specifications.
//
// Every field is described by a [Key]: its canonical name, the message direction
// it is valid on, the categories it belongs to and a parse/render/validate contract.
// A [Field] pairs a key with a value that passed the key validation, so an invalid
// field value can never be observed.
//
// # Parsing
//
// Use [Parse] to parse a single field value:
//
//	hdr, err := header.Parse("Accept-Encoding", "gzip;q=1.0, identity; q=0.5, *;q=0")
//
// Typed access goes through the key:
//
//	age, err := header.Age.ParseValue(header.HTTP11, "60") // 60s
//
// Whole field sections are read with [Parser], which checks field direction
// and protocol version:
//
//	p := header.NewParser(&header.ParserOptions{Direction: header.Request, Strict: true})
//	hs, err := p.Parse(r)
//
// Field values may reference other fields. For example, Trailer, Vary and Connection
// hold keys resolved through [Lookup], and Trailer rejects keys outside of the
// categories allowed in a trailer section.
//
// # Header Naming and Canonicalization
//
// Names are canonicalized using [textproto.CanonicalMIMEHeaderKey] combined with
// a mapping of well-known spellings:
//
//	"Etag" → "ETag"
//	"Www-Authenticate" → "WWW-Authenticate"
//	"Sec-Ch-Ua" → "Sec-CH-UA"
//	"Dnt" → "DNT"
//
// # Collections
//
// [List] is an ordered multi-value collection owned by a single message.
// [List.Add] appends a field, [List.Put] replaces all fields with the same name.
// [Frozen] and [Empty] reject every mutation with [ErrFrozen].
//
// # Custom Keys
//
// Applications can register keys for extension fields via [Register] and remove them
// with [Unregister]. Names without a registered key resolve to a string key
// valid in both directions.
//
//	var XRequestID = header.MustKey("X-Request-ID", header.Both, parseID, renderID, nil)
//
//	func init() {
//		if err := header.Register(XRequestID); err != nil {
//			panic(err)
//		}
//	}
package header

//go:generate go tool errtrace -w .
