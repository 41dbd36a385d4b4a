package devtree

import (
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/devinfo/devtree/hal"
)

// PropType is the value kind of a property.
type PropType int

// Property kinds. The numeric values match the provider's raw type codes.
const (
	PropBoolean   PropType = hal.PropTypeBoolean   // Presence only
	PropInt32     PropType = hal.PropTypeInt       // 32-bit integers
	PropString    PropType = hal.PropTypeString    // NUL-terminated strings
	PropByte      PropType = hal.PropTypeByte      // Byte array
	PropUnknown   PropType = hal.PropTypeUnknown   // Encoding not known to the framework
	PropUndefined PropType = hal.PropTypeUndefined // Explicitly undefined
	PropInt64     PropType = hal.PropTypeInt64     // 64-bit integers
)

// String returns the kind name.
func (t PropType) String() string {
	switch t {
	case PropBoolean:
		return "boolean"
	case PropInt32:
		return "int32"
	case PropString:
		return "string"
	case PropByte:
		return "byte"
	case PropUnknown:
		return "unknown"
	case PropUndefined:
		return "undefined"
	case PropInt64:
		return "int64"
	default:
		return "invalid"
	}
}

func decodePropType(raw int) PropType {
	switch t := PropType(raw); t {
	case PropBoolean, PropInt32, PropString, PropByte, PropUnknown, PropUndefined, PropInt64:
		return t
	default:
		return PropUnknown
	}
}

// =============================================================================
// Property Walk
// =============================================================================

// PropertyWalk visits the properties of one node in native order.
type PropertyWalk struct {
	snap *Snapshot
	node hal.NodeID
	prop hal.PropID
	done bool
}

// Next returns the next property, or [Done].
func (w *PropertyWalk) Next() (Property, error) {
	tree, err := w.snap.live()
	if err != nil {
		return Property{}, err
	}
	if w.done {
		return Property{}, Done
	}

	p, err := tree.PropNext(w.node, w.prop)
	if err != nil {
		w.done = true
		return Property{}, stepError("di_prop_next", err)
	}
	if p == hal.NilProp {
		w.done = true
		return Property{}, Done
	}
	w.prop = p
	return Property{snap: w.snap, id: p}, nil
}

// =============================================================================
// Property
// =============================================================================

// Property is a view of one named, typed value attached to a node.
//
// The typed accessors report false when the property is of another kind or
// its value cannot be read. The only conversion performed is widening a
// 32-bit integer in [Property.Int64] and [Property.Int64s].
type Property struct {
	snap *Snapshot
	id   hal.PropID
}

// Name returns the property name.
func (p Property) Name() string {
	return p.snap.mustTree().PropName(p.id)
}

// Type returns the property kind.
func (p Property) Type() PropType {
	return decodePropType(p.snap.mustTree().PropType(p.id))
}

// Bool reports true if the property is a boolean. Boolean properties carry
// no value; their presence is the value.
func (p Property) Bool() (bool, bool) {
	if p.Type() != PropBoolean {
		return false, false
	}
	return true, true
}

// Int32 returns the first value of a 32-bit integer property.
func (p Property) Int32() (int32, bool) {
	vals, ok := p.Int32s()
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// Int32s returns every value of a 32-bit integer property.
func (p Property) Int32s() ([]int32, bool) {
	if p.Type() != PropInt32 {
		return nil, false
	}
	vals, err := p.snap.mustTree().PropInts(p.id)
	if err != nil {
		return nil, false
	}
	return vals, true
}

// Int64 returns the first value of a 64-bit integer property, or the first
// value of a 32-bit integer property widened to 64 bits.
func (p Property) Int64() (int64, bool) {
	vals, ok := p.Int64s()
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// Int64s returns every value of a 64-bit integer property, or every value of
// a 32-bit integer property widened to 64 bits.
func (p Property) Int64s() ([]int64, bool) {
	switch p.Type() {
	case PropInt64:
		vals, err := p.snap.mustTree().PropInt64s(p.id)
		if err != nil {
			return nil, false
		}
		return vals, true
	case PropInt32:
		narrow, ok := p.Int32s()
		if !ok {
			return nil, false
		}
		vals := make([]int64, len(narrow))
		for i, v := range narrow {
			vals[i] = int64(v)
		}
		return vals, true
	default:
		return nil, false
	}
}

// RawString returns the bytes of the first value of a string property
// without validating the encoding.
func (p Property) RawString() ([]byte, bool) {
	if p.Type() != PropString {
		return nil, false
	}
	vals, err := p.snap.mustTree().PropStrings(p.id)
	if err != nil || len(vals) == 0 {
		return nil, false
	}
	return vals[0], true
}

// StringValue returns the first value of a string property. It reports
// false if the value is not valid UTF-8.
func (p Property) StringValue() (string, bool) {
	b, ok := p.RawString()
	if !ok || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// StringValues returns every value of a string property. It reports false
// if any value is not valid UTF-8.
func (p Property) StringValues() ([]string, bool) {
	if p.Type() != PropString {
		return nil, false
	}
	raw, err := p.snap.mustTree().PropStrings(p.id)
	if err != nil {
		return nil, false
	}
	vals := make([]string, len(raw))
	for i, b := range raw {
		if !utf8.Valid(b) {
			return nil, false
		}
		vals[i] = string(b)
	}
	return vals, true
}

// Bytes returns the value of a byte array property.
func (p Property) Bytes() ([]byte, bool) {
	if p.Type() != PropByte {
		return nil, false
	}
	b, err := p.snap.mustTree().PropBytes(p.id)
	if err != nil {
		return nil, false
	}
	return b, true
}

// String formats the first value of integer and string properties for
// display. Other kinds, and values that cannot be read, format as
// "<?Property>".
func (p Property) String() string {
	const unknown = "<?Property>"
	switch p.Type() {
	case PropInt32, PropInt64:
		if v, ok := p.Int64(); ok {
			return strconv.FormatInt(v, 10)
		}
	case PropString:
		if v, ok := p.StringValue(); ok {
			return v
		}
	}
	return unknown
}
