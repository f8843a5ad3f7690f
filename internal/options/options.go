// Package options defines the options value callers pass to capability
// selection: a flat set of named primitive attributes with a canonical,
// order-independent string form used as a cache key.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrInvalidAttribute is returned when an attribute value is not a known,
// non-null primitive. Options must stay a flat attribute set so two
// attribute-wise equal values always canonicalize to the same key.
var ErrInvalidAttribute = errors.New("options: attribute value must be a known non-null primitive")

// Options is an immutable, flat attribute-value set describing what the
// caller wants from a capability. Supports functions inspect it; the
// selection cache keys on its canonical form.
type Options struct {
	attrs map[string]cty.Value
}

// None returns the empty options value.
func None() Options {
	return Options{}
}

// New builds an Options value from the given attributes. Every value must be
// a known, non-null primitive (string, number, or bool).
func New(attrs map[string]cty.Value) (Options, error) {
	copied := make(map[string]cty.Value, len(attrs))
	for name, val := range attrs {
		if err := checkAttr(name, val); err != nil {
			return Options{}, err
		}
		copied[name] = val
	}
	return Options{attrs: copied}, nil
}

// MustNew is New for statically known attribute sets; it panics on an
// invalid attribute, which is a programming error there.
func MustNew(attrs map[string]cty.Value) Options {
	o, err := New(attrs)
	if err != nil {
		panic(err)
	}
	return o
}

// FromObject builds an Options value from a cty object or map value, such as
// the result of evaluating an HCL expression like {algorithm = "fnv1a"}.
func FromObject(val cty.Value) (Options, error) {
	if val.IsNull() || !val.IsKnown() {
		return Options{}, fmt.Errorf("%w: object is null or unknown", ErrInvalidAttribute)
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return Options{}, fmt.Errorf("%w: expected an object, got %s", ErrInvalidAttribute, ty.FriendlyName())
	}
	return New(val.AsValueMap())
}

func checkAttr(name string, val cty.Value) error {
	if name == "" {
		return fmt.Errorf("%w: attribute name is empty", ErrInvalidAttribute)
	}
	if val.IsNull() || !val.IsKnown() {
		return fmt.Errorf("%w: attribute %q", ErrInvalidAttribute, name)
	}
	if !val.Type().IsPrimitiveType() {
		return fmt.Errorf("%w: attribute %q has type %s", ErrInvalidAttribute, name, val.Type().FriendlyName())
	}
	return nil
}

// Len returns the number of attributes.
func (o Options) Len() int {
	return len(o.attrs)
}

// Get returns the raw attribute value by name.
func (o Options) Get(name string) (cty.Value, bool) {
	val, ok := o.attrs[name]
	return val, ok
}

// StringAttr returns the named attribute if it is present and a string.
func (o Options) StringAttr(name string) (string, bool) {
	val, ok := o.attrs[name]
	if !ok || val.Type() != cty.String {
		return "", false
	}
	return val.AsString(), true
}

// NumberAttr returns the named attribute as a float64 if it is present and a
// number.
func (o Options) NumberAttr(name string) (float64, bool) {
	val, ok := o.attrs[name]
	if !ok || val.Type() != cty.Number {
		return 0, false
	}
	f, _ := val.AsBigFloat().Float64()
	return f, true
}

// BoolAttr returns the named attribute if it is present and a bool.
func (o Options) BoolAttr(name string) (bool, bool) {
	val, ok := o.attrs[name]
	if !ok || val.Type() != cty.Bool {
		return false, false
	}
	return val.True(), true
}

// Canonical returns a deterministic string form of the options value.
// Attribute names are sorted, so attribute-wise equal values produce the
// same key regardless of how they were constructed. The result always
// starts with '{', which lets callers reserve non-'{' prefixes as sentinel
// keys that can never collide with a real options value.
func (o Options) Canonical() string {
	if len(o.attrs) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(o.attrs))
	for name := range o.attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		val := o.attrs[name]
		encoded, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			// Primitive values always marshal; GoString keeps the key
			// deterministic if that ever stops holding.
			encoded = []byte(val.GoString())
		}
		fmt.Fprintf(&b, "%q:%s", name, encoded)
	}
	b.WriteByte('}')
	return b.String()
}

// String implements fmt.Stringer for logging and diagnostics.
func (o Options) String() string {
	return o.Canonical()
}
