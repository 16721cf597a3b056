package events

import (
	"fmt"
	"reflect"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// ArgType is the runtime shape accepted for one capability argument.
type ArgType int

const (
	// ArgString accepts a Go string.
	ArgString ArgType = iota
	// ArgBool accepts a bool.
	ArgBool
	// ArgTrue accepts only the literal true.
	ArgTrue
	// ArgNumber accepts any integer or float kind.
	ArgNumber
	// ArgStyle accepts a string-keyed map whose values are strings or numbers.
	ArgStyle
	// ArgObject accepts Arg.Object (value or pointer) or a string-keyed map.
	ArgObject
)

var argTypeNames = map[ArgType]string{
	ArgString: "string",
	ArgBool:   "bool",
	ArgTrue:   "true",
	ArgNumber: "number",
	ArgStyle:  "style map",
	ArgObject: "object",
}

// String returns the shape name used in validation messages.
func (t ArgType) String() string {
	if name, ok := argTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ArgType(%d)", int(t))
}

// Arg describes one positional argument of a capability.
type Arg struct {
	Name     string
	Type     ArgType
	Optional bool
	Object   reflect.Type // struct type for ArgObject
}

// ValidateArgs checks args against the entry's argument list. Unknown and
// notification entries accept anything. A nil value is allowed for an
// optional argument and means "not supplied".
func (s Spec) ValidateArgs(args []any) error {
	if s.Kind != Capability {
		return nil
	}

	required := 0
	for _, a := range s.Args {
		if !a.Optional {
			required++
		}
	}
	if len(args) < required || len(args) > len(s.Args) {
		want := fmt.Sprintf("%d", len(s.Args))
		if required != len(s.Args) {
			want = fmt.Sprintf("%d to %d", required, len(s.Args))
		}
		return errors.NewValidationError(string(s.Event), len(args),
			fmt.Sprintf("expected %s arguments, got %d", want, len(args)))
	}

	for i, value := range args {
		arg := s.Args[i]
		if value == nil {
			if arg.Optional {
				continue
			}
			return errors.NewValidationError(s.field(arg), nil, "is required")
		}
		if !arg.accepts(value) {
			return errors.NewValidationError(s.field(arg), value,
				fmt.Sprintf("expected %s, got %T", arg.Type, value))
		}
	}
	return nil
}

func (s Spec) field(a Arg) string {
	return string(s.Event) + "." + a.Name
}

func (a Arg) accepts(value any) bool {
	v := reflect.ValueOf(value)
	switch a.Type {
	case ArgString:
		return v.Kind() == reflect.String
	case ArgBool:
		return v.Kind() == reflect.Bool
	case ArgTrue:
		return v.Kind() == reflect.Bool && v.Bool()
	case ArgNumber:
		return isNumber(v.Kind())
	case ArgStyle:
		return isStyle(v)
	case ArgObject:
		if v.Kind() == reflect.Pointer && !v.IsNil() {
			v = v.Elem()
		}
		if a.Object != nil && v.Type() == a.Object {
			return true
		}
		return v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isStyle(v reflect.Value) bool {
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return false
	}
	iter := v.MapRange()
	for iter.Next() {
		elem := iter.Value()
		if elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				return false
			}
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.String && !isNumber(elem.Kind()) {
			return false
		}
	}
	return true
}
