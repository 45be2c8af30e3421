package types

import (
	"maps"
	"slices"

	"github.com/ghettovoice/httphdr/internal/util"
)

// Values maps a string key to a list of string values.
// The keys in the map are case-insensitive.
// It is used to store parameters of header values.
type Values map[string][]string

// Get returns values associated with the given key.
func (vals Values) Get(key string) []string { return vals[util.LCase(key)] }

// First returns the first value associated with the key.
func (vals Values) First(key string) (string, bool) {
	v := vals[util.LCase(key)]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Last returns the last value associated with the key.
func (vals Values) Last(key string) (string, bool) {
	v := vals[util.LCase(key)]
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}

// Set sets the key to value. It replaces any existing values.
func (vals Values) Set(key, value string) Values {
	vals[util.LCase(key)] = []string{value}
	return vals
}

// Append adds the value to the key.
func (vals Values) Append(key, value string) Values {
	key = util.LCase(key)
	vals[key] = append(vals[key], value)
	return vals
}

// Del deletes the values associated with the key.
func (vals Values) Del(key string) Values {
	delete(vals, util.LCase(key))
	return vals
}

// Has checks whether a given key is in the map.
func (vals Values) Has(key string) bool {
	_, ok := vals[util.LCase(key)]
	return ok
}

// Keys returns the keys in sorted order.
func (vals Values) Keys() []string {
	return slices.Sorted(maps.Keys(vals))
}

// Clone returns a copy of the map.
func (vals Values) Clone() Values {
	if vals == nil {
		return nil
	}
	vals2 := make(Values, len(vals))
	for k, vs := range vals {
		vals2[k] = slices.Clone(vs)
	}
	return vals2
}

// Equal reports whether both maps hold the same keys with the same values.
// Values are compared case-sensitively.
func (vals Values) Equal(val any) bool {
	var other Values
	switch v := val.(type) {
	case Values:
		other = v
	case *Values:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return maps.EqualFunc(vals, other, slices.Equal[[]string])
}
