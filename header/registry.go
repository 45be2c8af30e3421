package header

import (
	"log/slog"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/category"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/syncutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

var (
	builtinKeys  = make(map[string]AnyKey)
	customKeys   syncutil.RWMap[string, AnyKey]
	fallbackKeys = syncutil.NewShardMap[string, *Key[string]]()
)

func builtin[T any](k *Key[T]) *Key[T] {
	builtinKeys[k.name.Lower()] = k
	return k
}

// Lookup returns the key registered for the name, case-insensitively.
// Names without a registered key resolve to a string key with direction [Both].
func Lookup[T ~string](name T) (AnyKey, error) {
	n := CanonicName(name)
	if !n.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidName, "%q", string(name)))
	}

	lname := n.Lower()
	if k, ok := builtinKeys[lname]; ok {
		return k, nil
	}
	if k, ok := customKeys.Get(lname); ok {
		return k, nil
	}
	return fallbackKeys.GetOrSet(lname, func() *Key[string] { return newStringKey(n) }), nil
}

// MustLookup is like [Lookup] but panics on error.
func MustLookup[T ~string](name T) AnyKey {
	k, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return k
}

// IsBuiltin reports whether the name has a built-in key.
func IsBuiltin[T ~string](name T) bool {
	_, ok := builtinKeys[CanonicName(name).Lower()]
	return ok
}

// BuiltinKeys returns all built-in keys sorted by name.
func BuiltinKeys() []AnyKey {
	keys := make([]AnyKey, 0, len(builtinKeys))
	for _, k := range builtinKeys {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AnyKey) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		default:
			return 0
		}
	})
	return keys
}

// Register registers a custom key. Built-in keys cannot be replaced.
// Registering the same name twice fails with [ErrKeyExists].
func Register(k AnyKey) error {
	if k == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil key"))
	}

	lname := k.Name().Lower()
	if _, ok := builtinKeys[lname]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrKeyExists, "%s is built-in", k.Name()))
	}
	if _, loaded := customKeys.GetOrSet(lname, k); loaded {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrKeyExists, "%s", k.Name()))
	}
	fallbackKeys.Del(lname)
	log.Def.Debug("header key registered", slog.Any("key", k.Name()), slog.Any("direction", k.Direction()))
	return nil
}

// Unregister removes a custom key. It reports whether the key was registered.
func Unregister[T ~string](name T) bool {
	_, ok := customKeys.GetAndDel(CanonicName(name).Lower())
	return ok
}

func newStringKey(n Name) *Key[string] {
	return &Key[string]{
		name:     n,
		dir:      Both,
		cats:     category.Classify(string(n)),
		parse:    parseText,
		render:   renderText,
		validate: validateText,
	}
}

func parseText(_ Version, s string) (string, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return "", errtrace.Wrap(ErrEmptyValue)
	}
	return s, nil
}

func renderText(_ Version, s string) string { return s }

func validateText(s string) error { return errtrace.Wrap(validateFieldValue(s)) }
