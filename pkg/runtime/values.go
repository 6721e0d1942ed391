package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ludeesha-cse/rpal20/pkg/control"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindBool
	KindDummy
	KindTuple
	KindClosure
	KindEta
	KindYStar
	KindBuiltin
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindBool:
		return "truthvalue"
	case KindDummy:
		return "dummy"
	case KindTuple:
		return "tuple"
	case KindClosure:
		return "function"
	case KindEta:
		return "eta"
	case KindYStar:
		return "Y*"
	case KindBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. String renders the
// value the way Print shows it.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

func (v IntegerValue) String() string { return strconv.FormatInt(v.Val, 10) }

// StringValue keeps escape sequences as written in the source; Print
// expands them on output.
type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

func (v StringValue) String() string { return v.Val }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) String() string { return strconv.FormatBool(v.Val) }

type DummyValue struct{}

func (DummyValue) Kind() Kind { return KindDummy }

func (DummyValue) String() string { return "dummy" }

//-----------------------------------------------------------------------------
// Tuples
//-----------------------------------------------------------------------------

// TupleValue is the only value mutated in place: aug appends to Elements.
// Environments hand out copies so an append never leaks into other
// bindings of the same tuple.
type TupleValue struct {
	Elements []Value
}

func (v *TupleValue) Kind() Kind { return KindTuple }

func (v *TupleValue) String() string {
	if len(v.Elements) == 0 {
		return "nil"
	}
	parts := lo.Map(v.Elements, func(e Value, _ int) string { return e.String() })
	return "(" + strings.Join(parts, ", ") + ")"
}

// Len reports the element count (Order).
func (v *TupleValue) Len() int { return len(v.Elements) }

// At returns the 1-based element i.
func (v *TupleValue) At(i int64) (Value, bool) {
	if i < 1 || i > int64(len(v.Elements)) {
		return nil, false
	}
	return v.Elements[i-1], true
}

// Append adds elem as the last element.
func (v *TupleValue) Append(elem Value) {
	v.Elements = append(v.Elements, elem)
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// ClosureValue is a Delta paired with the environment that was current
// when the Delta was pushed as a value.
type ClosureValue struct {
	Delta *control.Delta
	Env   *Environment
}

func (v *ClosureValue) Kind() Kind { return KindClosure }

func (v *ClosureValue) String() string {
	return fmt.Sprintf("[lambda closure: %s: %d]", v.Delta.Params(), v.Delta.Index)
}

// EtaValue is a rec-bound closure awaiting one more self-application.
type EtaValue struct {
	Closure *ClosureValue
}

func (v *EtaValue) Kind() Kind { return KindEta }

func (v *EtaValue) String() string {
	return fmt.Sprintf("[eta closure: %s: %d]", v.Closure.Delta.Params(), v.Closure.Delta.Index)
}

// YStarValue is the fixed-point combinator introduced by rec.
type YStarValue struct{}

func (YStarValue) Kind() Kind { return KindYStar }

func (YStarValue) String() string { return "Y*" }

// BuiltinValue names a builtin function. Args holds the operands supplied
// so far for builtins taking more than one.
type BuiltinValue struct {
	Name string
	Args []Value
}

func (v BuiltinValue) Kind() Kind { return KindBuiltin }

func (v BuiltinValue) String() string { return v.Name }

// WithArg returns a partial application of v extended by arg.
func (v BuiltinValue) WithArg(arg Value) BuiltinValue {
	args := make([]Value, 0, len(v.Args)+1)
	args = append(args, v.Args...)
	return BuiltinValue{Name: v.Name, Args: append(args, arg)}
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

func Int(n int64) IntegerValue { return IntegerValue{Val: n} }

func Str(s string) StringValue { return StringValue{Val: s} }

func Bool(b bool) BoolValue { return BoolValue{Val: b} }

// Tuple builds a tuple from elems without copying them.
func Tuple(elems ...Value) *TupleValue { return &TupleValue{Elements: elems} }

// Copy returns a value that shares no mutable state with v. Tuples are
// copied element by element; closures and Etas are immutable and returned
// as they are.
func Copy(v Value) Value {
	switch val := v.(type) {
	case *TupleValue:
		elems := make([]Value, len(val.Elements))
		for i, e := range val.Elements {
			elems[i] = Copy(e)
		}
		return &TupleValue{Elements: elems}
	case BuiltinValue:
		if len(val.Args) == 0 {
			return val
		}
		return BuiltinValue{Name: val.Name, Args: lo.Map(val.Args, func(a Value, _ int) Value { return Copy(a) })}
	default:
		return v
	}
}

// IsFunction reports whether v can be applied as a function.
func IsFunction(v Value) bool {
	switch v.Kind() {
	case KindClosure, KindEta, KindBuiltin:
		return true
	}
	return false
}
