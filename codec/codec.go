package codec

import (
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Codec is a named byte transform.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the coding name as it appears in Content-Encoding or Transfer-Encoding.
	// Names are compared case-insensitively.
	Name() string
	// Encode applies the coding to data.
	Encode(data []byte) ([]byte, error)
	// Decode reverts the coding.
	Decode(data []byte) ([]byte, error)
}

const (
	// ErrMalformedData is returned when encoded input cannot be decoded.
	ErrMalformedData errorutil.Error = "malformed encoded data"
	// ErrNotRegistered is returned when no codec is registered for a name.
	ErrNotRegistered errorutil.Error = "codec not registered"
	// ErrAlreadyRegistered is returned on an attempt to register a name twice.
	ErrAlreadyRegistered errorutil.Error = "codec already registered"
	// ErrBuiltin is returned on an attempt to replace or remove a built-in codec.
	ErrBuiltin errorutil.Error = "built-in codec"
)

// ErrBadCompressedCode is returned by [Compress] for a code that is neither in the dictionary
// nor the next code to be added.
var ErrBadCompressedCode = errorutil.NewWrapperError(ErrMalformedData, "bad compressed code")

func newMalformedDataErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedData, args...) //errtrace:skip
}

func normName(name string) string { return util.LCase(util.TrimOWS(name)) }
