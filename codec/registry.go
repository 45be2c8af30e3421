package codec

import (
	"log/slog"
	"maps"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/syncutil"
)

var builtins = map[string]Codec{
	"identity": Identity{},
	"gzip":     GZip{},
	"deflate":  Deflate{},
	"compress": Compress{},
	"chunked":  Chunked{},
}

// Builtins returns built-in codecs with default settings sorted by name.
func Builtins() []Codec {
	names := slices.Sorted(maps.Keys(builtins))
	cs := make([]Codec, len(names))
	for i, n := range names {
		cs[i] = builtins[n]
	}
	return cs
}

// IsBuiltin reports whether the name belongs to a built-in codec.
func IsBuiltin(name string) bool {
	_, ok := builtins[lookupName(name)]
	return ok
}

// lookupName normalizes a coding name and maps legacy aliases like "x-gzip".
func lookupName(name string) string {
	return string(header.Coding(normName(name)).Canonic())
}

// RegistryOptions configures a [Registry].
type RegistryOptions struct {
	// Codecs are registered on creation. A codec named as a built-in one replaces
	// its default settings, e.g. GZip{Level: flate.BestSpeed}.
	Codecs []Codec
	// Logger is the logger.
	// If nil, the [log.Def] is used.
	Logger *slog.Logger
}

func (o *RegistryOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Def
	}
	return o.Logger
}

// Registry resolves codecs by name: built-in codecs first, then registered ones.
// It is safe for concurrent use.
type Registry struct {
	builtins map[string]Codec
	codecs   syncutil.RWMap[string, Codec]
	log      *slog.Logger
}

// NewRegistry creates a new registry.
// Options are optional, if nil, default values are used (see [RegistryOptions]).
func NewRegistry(opts *RegistryOptions) *Registry {
	r := &Registry{builtins: builtins, log: opts.log()}
	if opts == nil {
		return r
	}

	cloned := false
	for _, c := range opts.Codecs {
		if c == nil {
			continue
		}
		name := lookupName(c.Name())
		if _, ok := builtins[name]; ok {
			if !cloned {
				r.builtins, cloned = maps.Clone(builtins), true
			}
			r.builtins[name] = c
			continue
		}
		r.codecs.Set(name, c)
	}
	return r
}

// Add registers a codec under its name.
// Built-in names fail with [ErrBuiltin], already registered names with [ErrAlreadyRegistered].
func (r *Registry) Add(c Codec) error {
	if c == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil codec"))
	}
	name := lookupName(c.Name())
	if !grammar.IsToken(name) {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid codec name %q", c.Name()))
	}
	if _, ok := r.builtins[name]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrBuiltin, "%q", name))
	}
	if _, loaded := r.codecs.GetOrSet(name, c); loaded {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrAlreadyRegistered, "%q", name))
	}

	r.log.Debug("codec registered", slog.String("codec", name))
	return nil
}

// Remove unregisters a codec.
// Built-in names fail with [ErrBuiltin], unknown names with [ErrNotRegistered].
func (r *Registry) Remove(name string) error {
	lname := lookupName(name)
	if _, ok := r.builtins[lname]; ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrBuiltin, "%q", lname))
	}
	if _, ok := r.codecs.GetAndDel(lname); !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotRegistered, "%q", lname))
	}

	r.log.Debug("codec unregistered", slog.String("codec", lname))
	return nil
}

// Contains reports whether a built-in or registered codec matches the name.
func (r *Registry) Contains(name string) bool {
	lname := lookupName(name)
	if _, ok := r.builtins[lname]; ok {
		return true
	}
	return r.codecs.Has(lname)
}

// Retrieve returns the codec for the name, case-insensitively.
func (r *Registry) Retrieve(name string) (Codec, error) {
	lname := lookupName(name)
	if c, ok := r.builtins[lname]; ok {
		return c, nil
	}
	if c, ok := r.codecs.Get(lname); ok {
		return c, nil
	}

	r.log.Debug("codec lookup miss", slog.String("codec", lname))
	return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotRegistered, "%q", name))
}

// Names returns names of all codecs known to the registry sorted alphabetically.
func (r *Registry) Names() []string {
	names := slices.Collect(maps.Keys(r.builtins))
	for n := range r.codecs.All() {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

var defRegistry = NewRegistry(nil)

// Default returns the process-wide registry used by the package-level functions.
func Default() *Registry { return defRegistry }

// Add registers a codec in the default registry.
func Add(c Codec) error { return errtrace.Wrap(defRegistry.Add(c)) }

// Remove unregisters a codec from the default registry.
func Remove(name string) error { return errtrace.Wrap(defRegistry.Remove(name)) }

// Contains reports whether the default registry knows the name.
func Contains(name string) bool { return defRegistry.Contains(name) }

// Retrieve returns a codec from the default registry.
func Retrieve(name string) (Codec, error) { return errtrace.Wrap2(defRegistry.Retrieve(name)) }
