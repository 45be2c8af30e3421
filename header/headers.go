package header

import (
	"encoding/json"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Headers is an ordered collection of fields.
// Fields sharing a name keep their insertion order. Names are matched case-insensitively.
// Iteration and rendering group fields by name, names follow their first appearance:
// adding A: 1, B: 1, A: 2 renders A: 1, A: 2, B: 1.
type Headers interface {
	// Add appends headers unconditionally.
	Add(hdrs ...Header) error
	// Put removes all fields with the same name as each of hdrs, then appends hdrs.
	Put(hdrs ...Header) error
	// Remove removes all fields with the name and reports whether any were removed.
	Remove(name Name) (bool, error)
	// All returns all fields in order.
	All() []Header
	// Get returns fields with the name in insertion order.
	Get(name Name) []Header
	First(name Name) (Header, bool)
	Last(name Name) (Header, bool)
	Has(name Name) bool
	// Names returns distinct canonical names in order of first appearance.
	Names() []Name
	Len() int
	IsFrozen() bool
	Clone() Headers
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
	Render(opts *RenderOptions) string
	Equal(val any) bool
}

// List is a mutable [Headers] owned by a single message.
// It is not safe for concurrent mutation.
// The zero value is an empty list ready to use.
type List struct {
	hdrs  map[string][]Header
	order []string
}

// NewList creates a list filled with hdrs.
func NewList(hdrs ...Header) *List {
	l := new(List)
	l.Add(hdrs...) //nolint:errcheck
	return l
}

func (l *List) init() {
	if l.hdrs == nil {
		l.hdrs = make(map[string][]Header)
	}
}

func (l *List) append(hdr Header) {
	name := hdr.Name().Lower()
	if _, ok := l.hdrs[name]; !ok {
		l.order = append(l.order, name)
	}
	l.hdrs[name] = append(l.hdrs[name], hdr)
}

func (l *List) Add(hdrs ...Header) error {
	l.init()
	for _, hdr := range hdrs {
		if hdr == nil {
			continue
		}
		l.append(hdr)
	}
	return nil
}

func (l *List) Put(hdrs ...Header) error {
	l.init()
	for _, hdr := range hdrs {
		if hdr == nil {
			continue
		}
		l.Remove(hdr.Name()) //nolint:errcheck
	}
	for _, hdr := range hdrs {
		if hdr == nil {
			continue
		}
		l.append(hdr)
	}
	return nil
}

func (l *List) Remove(name Name) (bool, error) {
	lname := name.Lower()
	if _, ok := l.hdrs[lname]; !ok {
		return false, nil
	}

	delete(l.hdrs, lname)
	for i, entry := range l.order {
		if entry == lname {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (l *List) All() []Header {
	if l == nil {
		return nil
	}

	hdrs := make([]Header, 0, l.Len())
	for _, name := range l.order {
		hdrs = append(hdrs, l.hdrs[name]...)
	}
	return hdrs
}

func (l *List) Get(name Name) []Header {
	if l == nil {
		return nil
	}
	return append([]Header(nil), l.hdrs[name.Lower()]...)
}

func (l *List) First(name Name) (Header, bool) {
	if l == nil {
		return nil, false
	}

	hdrs := l.hdrs[name.Lower()]
	if len(hdrs) == 0 {
		return nil, false
	}
	return hdrs[0], true
}

func (l *List) Last(name Name) (Header, bool) {
	if l == nil {
		return nil, false
	}

	hdrs := l.hdrs[name.Lower()]
	if len(hdrs) == 0 {
		return nil, false
	}
	return hdrs[len(hdrs)-1], true
}

func (l *List) Has(name Name) bool {
	if l == nil {
		return false
	}
	_, ok := l.hdrs[name.Lower()]
	return ok
}

func (l *List) Names() []Name {
	if l == nil {
		return nil
	}

	names := make([]Name, len(l.order))
	for i, n := range l.order {
		names[i] = l.hdrs[n][0].Name()
	}
	return names
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}

	n := 0
	for _, hdrs := range l.hdrs {
		n += len(hdrs)
	}
	return n
}

func (*List) IsFrozen() bool { return false }

func (l *List) Clone() Headers {
	l2 := new(List)
	if l == nil {
		return l2
	}

	l2.init()
	for _, hdr := range l.All() {
		l2.append(hdr.Clone())
	}
	return l2
}

// Freeze returns a frozen copy of the list.
func (l *List) Freeze() *Frozen {
	return &Frozen{list: l.Clone().(*List)} //nolint:forcetypeassert
}

func (l *List) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, hdr := range l.All() {
		cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(hdr.RenderTo(w, opts)) })
		cw.CRLF() //nolint:errcheck
	}
	return errtrace.Wrap2(cw.Result())
}

func (l *List) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	l.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (l *List) String() string { return l.Render(nil) }

// Equal reports whether val holds the same fields in the same order.
func (l *List) Equal(val any) bool {
	other, ok := val.(Headers)
	if !ok || other == nil {
		return false
	}
	return equalHeaders(l.All(), other.All())
}

func equalHeaders(hdrs1, hdrs2 []Header) bool {
	if len(hdrs1) != len(hdrs2) {
		return false
	}
	for i := range hdrs1 {
		if !hdrs1[i].Equal(hdrs2[i]) {
			return false
		}
	}
	return true
}

func (l *List) MarshalJSON() ([]byte, error) { return errtrace.Wrap2(marshalHeaders(l)) }

func (l *List) UnmarshalJSON(data []byte) error {
	var hds []headerData
	if err := json.Unmarshal(data, &hds); err != nil {
		return errtrace.Wrap(err)
	}

	l2 := new(List)
	l2.init()
	for _, hd := range hds {
		hdr, err := Parse(hd.Name, hd.Value)
		if err != nil {
			return errtrace.Wrap(err)
		}
		l2.append(hdr)
	}
	*l = *l2
	return nil
}

func marshalHeaders(hs Headers) ([]byte, error) {
	hdrs := hs.All()
	hds := make([]headerData, len(hdrs))
	for i, hdr := range hdrs {
		hds[i] = headerData{Name: string(hdr.Name()), Value: hdr.RenderValue(nil)}
	}
	return errtrace.Wrap2(json.Marshal(hds))
}

// Frozen is a read-only [Headers]. All mutators fail with [ErrFrozen].
type Frozen struct {
	list *List
}

var empty = &Frozen{list: new(List)}

// Empty returns an empty frozen collection.
func Empty() *Frozen { return empty }

func (*Frozen) Add(...Header) error { return errtrace.Wrap(ErrFrozen) }

func (*Frozen) Put(...Header) error { return errtrace.Wrap(ErrFrozen) }

func (*Frozen) Remove(Name) (bool, error) { return false, errtrace.Wrap(ErrFrozen) }

func (f *Frozen) All() []Header { return f.list.All() }

func (f *Frozen) Get(name Name) []Header { return f.list.Get(name) }

func (f *Frozen) First(name Name) (Header, bool) { return f.list.First(name) }

func (f *Frozen) Last(name Name) (Header, bool) { return f.list.Last(name) }

func (f *Frozen) Has(name Name) bool { return f.list.Has(name) }

func (f *Frozen) Names() []Name { return f.list.Names() }

func (f *Frozen) Len() int { return f.list.Len() }

func (*Frozen) IsFrozen() bool { return true }

// Clone returns a mutable copy.
func (f *Frozen) Clone() Headers { return f.list.Clone() }

func (f *Frozen) RenderTo(w io.Writer, opts *RenderOptions) (int, error) {
	return errtrace.Wrap2(f.list.RenderTo(w, opts))
}

func (f *Frozen) Render(opts *RenderOptions) string { return f.list.Render(opts) }

func (f *Frozen) String() string { return f.list.String() }

func (f *Frozen) Equal(val any) bool { return f.list.Equal(val) }

func (f *Frozen) MarshalJSON() ([]byte, error) { return errtrace.Wrap2(marshalHeaders(f)) }
