package header

import (
	"strings"

	"braces.dev/errtrace"
)

// Direction is a set of message kinds a field is valid on.
type Direction uint8

const (
	Request Direction = 1 << iota
	Response

	Both = Request | Response
)

// Allows reports whether the field direction permits the message direction d.
func (d Direction) Allows(o Direction) bool { return d&o == o && o != 0 }

func (d Direction) String() string {
	switch d {
	case Request:
		return "request"
	case Response:
		return "response"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// Version is an HTTP protocol version.
// The zero value means HTTP/1.1.
type Version uint8

const (
	HTTP11 Version = iota
	HTTP10
	HTTP2
	HTTP3
)

func (v Version) String() string {
	switch v {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP2:
		return "HTTP/2"
	case HTTP3:
		return "HTTP/3"
	default:
		return "HTTP/1.1"
	}
}

// IsMultiplexed reports whether the version forbids connection-specific fields (RFC 9113 section 8.2.2).
func (v Version) IsMultiplexed() bool { return v == HTTP2 || v == HTTP3 }

// ParseVersion parses "HTTP/1.1", "1.1", "h2", "2" and alike.
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "HTTP/") {
	case "1.0":
		return HTTP10, nil
	case "1.1", "":
		return HTTP11, nil
	case "2", "2.0", "H2":
		return HTTP2, nil
	case "3", "3.0", "H3":
		return HTTP3, nil
	default:
		return HTTP11, errtrace.Wrap(newInvalidValueErr("unsupported protocol version %q", s))
	}
}

// RenderOptions contains options for rendering fields.
type RenderOptions struct {
	Version Version
}

func (o *RenderOptions) version() Version {
	if o == nil {
		return HTTP11
	}
	return o.Version
}
