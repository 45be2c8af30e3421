package codec

import (
	"errors"
	"fmt"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
)

// Encode applies codings to data in the listed order.
// If reg is nil, the default registry is used.
func Encode(reg *Registry, data []byte, names ...string) ([]byte, error) {
	if reg == nil {
		reg = defRegistry
	}

	for _, name := range names {
		c, err := reg.Retrieve(name)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		if data, err = c.Encode(data); err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("encode %s: %w", c.Name(), err))
		}
	}
	return data, nil
}

// Decode reverts codings listed in the order they were applied, the last one first.
// If reg is nil, the default registry is used.
func Decode(reg *Registry, data []byte, names ...string) ([]byte, error) {
	if reg == nil {
		reg = defRegistry
	}

	for _, name := range slices.Backward(names) {
		c, err := reg.Retrieve(name)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		if data, err = c.Decode(data); err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("decode %s: %w", c.Name(), err))
		}
	}
	return data, nil
}

// MessageCodings returns codings applied to a message body: Content-Encoding values
// followed by Transfer-Encoding values.
func MessageCodings(hs header.Headers) ([]string, error) {
	var names []string
	for _, k := range []*header.Key[[]header.Coding]{header.ContentEncoding, header.TransferEncoding} {
		lists, err := header.Get(hs, k)
		if err != nil {
			if errors.Is(err, header.ErrNotFound) {
				continue
			}
			return nil, errtrace.Wrap(err)
		}
		for _, l := range lists {
			for _, c := range l {
				names = append(names, string(c))
			}
		}
	}
	return names, nil
}

// EncodeMessage encodes a message body with codings listed in the message fields.
func EncodeMessage(reg *Registry, hs header.Headers, body []byte) ([]byte, error) {
	names, err := MessageCodings(hs)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Encode(reg, body, names...))
}

// DecodeMessage decodes a message body with codings listed in the message fields.
func DecodeMessage(reg *Registry, hs header.Headers, body []byte) ([]byte, error) {
	names, err := MessageCodings(hs)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Decode(reg, body, names...))
}
