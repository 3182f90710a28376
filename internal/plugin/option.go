package plugin

import "fmt"

// Kind identifies the value kind an Option declares. It is attached at
// declaration time so that downstream consumers (flag synthesis, config
// defaults) can handle every kind exhaustively instead of inspecting the
// value at runtime.
type Kind int

const (
	KindText Kind = iota
	KindBool
	KindFloat
	KindInt
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Option is a single configurable parameter declared by a driver or an
// extension. Options are immutable once declared; only the field matching
// Kind is meaningful.
type Option struct {
	Key  string
	Doc  string
	Kind Kind

	Text    string
	Bool    bool
	Float   float64
	Int     int
	Choices []string // KindEnum; the default is Choices[0]
}

// Default returns the declared default value for the option.
func (o Option) Default() any {
	switch o.Kind {
	case KindText:
		return o.Text
	case KindBool:
		return o.Bool
	case KindFloat:
		return o.Float
	case KindInt:
		return o.Int
	case KindEnum:
		if len(o.Choices) == 0 {
			return ""
		}
		return o.Choices[0]
	default:
		return nil
	}
}

// TextOption declares a free-form string option.
func TextOption(key, doc, def string) Option {
	return Option{Key: key, Doc: doc, Kind: KindText, Text: def}
}

// BoolOption declares a boolean option.
func BoolOption(key, doc string, def bool) Option {
	return Option{Key: key, Doc: doc, Kind: KindBool, Bool: def}
}

// FloatOption declares a decimal option.
func FloatOption(key, doc string, def float64) Option {
	return Option{Key: key, Doc: doc, Kind: KindFloat, Float: def}
}

// IntOption declares an integral option.
func IntOption(key, doc string, def int) Option {
	return Option{Key: key, Doc: doc, Kind: KindInt, Int: def}
}

// EnumOption declares an option restricted to the given choices. The first
// choice is the default.
func EnumOption(key, doc string, choices ...string) Option {
	return Option{Key: key, Doc: doc, Kind: KindEnum, Choices: choices}
}

// Template is the ordered set of options a driver or extension declares.
type Template []Option
