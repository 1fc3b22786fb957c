package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which payload a Value carries.
type Kind string

const (
	Number Kind = "number"
	String Kind = "string"
	Bool   Kind = "boolean"
)

// Value is an immutable tagged union of the value kinds an option can
// hold. The zero Value has no kind and compares unequal to every
// constructed Value.
type Value struct {
	kind Kind
	num  int64
	str  string
	flag bool
}

// Num constructs a number Value.
func Num(n int64) Value {
	return Value{kind: Number, num: n}
}

// Str constructs a string Value.
func Str(s string) Value {
	return Value{kind: String, str: s}
}

// Flag constructs a boolean Value.
func Flag(b bool) Value {
	return Value{kind: Bool, flag: b}
}

// Kind reports which payload the Value carries.
func (v Value) Kind() Kind {
	return v.kind
}

// Num returns the numeric payload. Zero unless Kind() == Number.
func (v Value) Num() int64 {
	return v.num
}

// Str returns the string payload. Empty unless Kind() == String.
func (v Value) Str() string {
	return v.str
}

// Flag returns the boolean payload. False unless Kind() == Bool.
func (v Value) Flag() bool {
	return v.flag
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String formats the payload for display.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatInt(v.num, 10)
	case String:
		return v.str
	case Bool:
		return strconv.FormatBool(v.flag)
	}
	return ""
}

// Encode renders a Value in its environment-variable text form:
// numbers as decimal, strings verbatim, booleans as "1" or "0".
func Encode(v Value) string {
	switch v.kind {
	case Bool:
		if v.flag {
			return "1"
		}
		return "0"
	case Number:
		return strconv.FormatInt(v.num, 10)
	default:
		return v.str
	}
}

// Decode parses text into a Value of the given kind. Numbers use signed
// decimal notation. Booleans decode exactly "1" as true and any other
// text as false; this is intentionally narrower than Encode, which only
// ever emits "1" or "0", so round-trips still agree.
func Decode(text string, kind Kind) (Value, error) {
	switch kind {
	case Number:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, &ParseError{Text: text, Kind: kind, Err: err}
		}
		return Num(n), nil
	case String:
		return Str(text), nil
	case Bool:
		return Flag(text == "1"), nil
	}
	return Value{}, fmt.Errorf("value: unknown kind %q", kind)
}

// ParseError reports text that could not be decoded as the target kind.
type ParseError struct {
	Text string
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value: cannot parse %q as %s", e.Text, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
