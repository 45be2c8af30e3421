package header

import (
	"maps"
	"math"
	"mime"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

func parseContentType(_ Version, s string) (MediaType, error) { return errtrace.Wrap2(ParseMediaType(s)) }

func renderMediaType(_ Version, mt MediaType) string { return mt.String() }

func validateContentType(mt MediaType) error {
	if mt.IsRange() {
		return errtrace.Wrap(newInvalidValueErr("media range %q is not allowed", mt.Type+"/"+mt.Subtype))
	}
	return errtrace.Wrap(mt.validate())
}

// Disposition is a value of the Content-Disposition field (RFC 6266).
// Extended parameters such as filename* are decoded into their plain names.
type Disposition struct {
	// Type is a disposition type in lower case, e.g. "inline" or "attachment".
	Type   string
	Params map[string]string
}

// Filename returns the suggested file name.
func (cd Disposition) Filename() string { return cd.Params["filename"] }

// IsAttachment reports whether the disposition is "attachment".
func (cd Disposition) IsAttachment() bool { return cd.Type == "attachment" }

func (cd Disposition) String() string { return mime.FormatMediaType(cd.Type, cd.Params) }

func (cd Disposition) Clone() Disposition {
	cd.Params = maps.Clone(cd.Params)
	return cd
}

func parseContentDisposition(_ Version, s string) (Disposition, error) {
	if util.TrimOWS(s) == "" {
		return Disposition{}, errtrace.Wrap(ErrEmptyValue)
	}
	typ, params, err := mime.ParseMediaType(s)
	if err != nil {
		return Disposition{}, errtrace.Wrap(newMalformedValueErr(err))
	}
	if strings.Contains(typ, "/") {
		return Disposition{}, errtrace.Wrap(newMalformedValueErr("invalid disposition type %q", typ))
	}
	if len(params) == 0 {
		params = nil
	}
	return Disposition{Type: typ, Params: params}, nil
}

func renderContentDisposition(_ Version, cd Disposition) string { return cd.String() }

func validateContentDisposition(cd Disposition) error {
	if !grammar.IsToken(cd.Type) {
		return errtrace.Wrap(newInvalidValueErr("invalid disposition type %q", cd.Type))
	}
	for k := range cd.Params {
		if !grammar.IsToken(k) {
			return errtrace.Wrap(newInvalidValueErr("invalid parameter name %q", k))
		}
	}
	if cd.String() == "" {
		return errtrace.Wrap(newInvalidValueErr("unrepresentable disposition %q", cd.Type))
	}
	return nil
}

// RangeUnitBytes is the only range unit defined by RFC 9110.
const RangeUnitBytes = "bytes"

// RangePart is a value of the Content-Range field (RFC 9110 section 14.4).
type RangePart struct {
	Unit string
	// First and Last are inclusive positions, unused when Unsatisfied.
	First, Last int64
	// Size is the complete length, -1 when unknown.
	Size int64
	// Unsatisfied marks the "*/size" form sent with 416 responses.
	Unsatisfied bool
}

// Len returns the number of bytes in the range.
func (cr RangePart) Len() int64 {
	if cr.Unsatisfied {
		return 0
	}
	return cr.Last - cr.First + 1
}

func (cr RangePart) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(cr.Unit)
	sb.WriteByte(' ')
	if cr.Unsatisfied {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strconv.FormatInt(cr.First, 10))
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatInt(cr.Last, 10))
	}
	sb.WriteByte('/')
	if cr.Size < 0 {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strconv.FormatInt(cr.Size, 10))
	}
	return sb.String()
}

func parsePos(s string) (int64, error) {
	n, err := parseUint(s)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	if n > math.MaxInt64 {
		return 0, errtrace.Wrap(newInvalidValueErr("position %d is out of range", n))
	}
	return int64(n), nil
}

func parseContentRange(_ Version, s string) (RangePart, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return RangePart{}, errtrace.Wrap(ErrEmptyValue)
	}

	unit, rest, ok := strings.Cut(s, " ")
	if !ok || !grammar.IsToken(unit) {
		return RangePart{}, errtrace.Wrap(newMalformedValueErr("invalid content range %q", s))
	}
	rng, size, ok := strings.Cut(strings.TrimLeft(rest, " "), "/")
	if !ok {
		return RangePart{}, errtrace.Wrap(newMalformedValueErr("missing complete length in %q", s))
	}

	cr := RangePart{Unit: util.LCase(unit), Size: -1}
	if size != "*" {
		n, err := parsePos(size)
		if err != nil {
			return RangePart{}, errtrace.Wrap(err)
		}
		cr.Size = n
	}

	if rng == "*" {
		cr.Unsatisfied = true
		return cr, nil
	}
	first, last, ok := strings.Cut(rng, "-")
	if !ok {
		return RangePart{}, errtrace.Wrap(newMalformedValueErr("invalid range %q", rng))
	}
	var err error
	if cr.First, err = parsePos(first); err != nil {
		return RangePart{}, errtrace.Wrap(err)
	}
	if cr.Last, err = parsePos(last); err != nil {
		return RangePart{}, errtrace.Wrap(err)
	}
	return cr, nil
}

func renderContentRange(_ Version, cr RangePart) string { return cr.String() }

func validateContentRange(cr RangePart) error {
	if !grammar.IsToken(cr.Unit) {
		return errtrace.Wrap(newInvalidValueErr("invalid range unit %q", cr.Unit))
	}
	if cr.Unsatisfied {
		if cr.Size < 0 {
			return errtrace.Wrap(newInvalidValueErr("unsatisfied range requires complete length"))
		}
		return nil
	}
	if cr.First < 0 || cr.Last < cr.First {
		return errtrace.Wrap(newInvalidValueErr("invalid range %d-%d", cr.First, cr.Last))
	}
	if cr.Size >= 0 && cr.Last >= cr.Size {
		return errtrace.Wrap(newInvalidValueErr("range %d-%d exceeds length %d", cr.First, cr.Last, cr.Size))
	}
	return nil
}

// RangeSpec is a single range of a Range field.
// A negative Start denotes a suffix range of the last End bytes.
// A negative End denotes an open range from Start to the end.
type RangeSpec struct {
	Start, End int64
}

// Bytes returns the inclusive positions of the spec within a representation of the size.
func (r RangeSpec) Bytes(size int64) (first, last int64, ok bool) {
	switch {
	case r.Start < 0:
		if r.End <= 0 || size == 0 {
			return 0, 0, false
		}
		return max(size-r.End, 0), size - 1, true
	case r.Start >= size:
		return 0, 0, false
	case r.End < 0 || r.End >= size:
		return r.Start, size - 1, true
	default:
		return r.Start, r.End, true
	}
}

func (r RangeSpec) String() string {
	switch {
	case r.Start < 0:
		return "-" + strconv.FormatInt(r.End, 10)
	case r.End < 0:
		return strconv.FormatInt(r.Start, 10) + "-"
	default:
		return strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10)
	}
}

// RangeSet is a value of the Range field (RFC 9110 section 14.2).
type RangeSet struct {
	Unit  string
	Specs []RangeSpec
}

func (r RangeSet) String() string { return r.Unit + "=" + joinList(r.Specs, RangeSpec.String) }

func (r RangeSet) Clone() RangeSet {
	r.Specs = append([]RangeSpec(nil), r.Specs...)
	return r
}

func parseRange(_ Version, s string) (RangeSet, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return RangeSet{}, errtrace.Wrap(ErrEmptyValue)
	}

	unit, set, ok := strings.Cut(s, "=")
	if !ok || !grammar.IsToken(unit) {
		return RangeSet{}, errtrace.Wrap(newMalformedValueErr("invalid range %q", s))
	}
	specs, err := parseList(set, func(spec string) (RangeSpec, error) {
		first, last, ok := strings.Cut(spec, "-")
		if !ok {
			return RangeSpec{}, errtrace.Wrap(newMalformedValueErr("invalid range spec %q", spec))
		}

		r := RangeSpec{Start: -1, End: -1}
		var err error
		if first != "" {
			if r.Start, err = parsePos(first); err != nil {
				return RangeSpec{}, errtrace.Wrap(err)
			}
		}
		if last != "" {
			if r.End, err = parsePos(last); err != nil {
				return RangeSpec{}, errtrace.Wrap(err)
			}
		}
		if first == "" && last == "" {
			return RangeSpec{}, errtrace.Wrap(newMalformedValueErr("invalid range spec %q", spec))
		}
		return r, nil
	})
	if err != nil {
		return RangeSet{}, errtrace.Wrap(err)
	}
	return RangeSet{Unit: util.LCase(unit), Specs: specs}, nil
}

func renderRange(_ Version, r RangeSet) string { return r.String() }

func validateRange(r RangeSet) error {
	if !grammar.IsToken(r.Unit) {
		return errtrace.Wrap(newInvalidValueErr("invalid range unit %q", r.Unit))
	}
	if err := validateNonEmpty(r.Specs); err != nil {
		return errtrace.Wrap(err)
	}
	for _, spec := range r.Specs {
		if spec.Start < 0 && spec.End < 0 || spec.Start >= 0 && spec.End >= 0 && spec.End < spec.Start {
			return errtrace.Wrap(newInvalidValueErr("invalid range spec %s", spec))
		}
	}
	return nil
}
