// Package codec provides HTTP content and transfer codings.
//
// A [Codec] is a named, invertible byte transform. The package ships the codings
// registered by RFC 9110 and RFC 9112: [Identity], [GZip], [Deflate], [Compress]
// and [Chunked]. Additional codings are plugged in through a [Registry]:
//
//	reg := codec.NewRegistry(nil)
//	if err := reg.Add(myBrotli); err != nil {
//		...
//	}
//	c, err := reg.Retrieve("br")
//
// Package-level functions [Add], [Remove], [Contains] and [Retrieve] operate on the
// process-wide default registry. All registry methods are safe for concurrent use.
//
// Codings applied to a body are listed in Content-Encoding or Transfer-Encoding
// in the order they were applied. [Encode] applies them in that order, [Decode]
// undoes them in reverse:
//
//	body, err := codec.Decode(nil, raw, "gzip", "chunked")
//
// Codec configuration such as the compression level or the chunk size is part of the
// codec value, so two requests never share mutable codec state.
package codec

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -source=codec.go -destination=../internal/testutil/codecmock/codec.go -package=codecmock
