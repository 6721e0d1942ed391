package interpreter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/ludeesha-cse/rpal20/pkg/runtime"
)

type builtinFunc func(i *Interpreter, args []runtime.Value, line int) (runtime.Value, error)

type builtin struct {
	arity int
	fn    builtinFunc
}

var builtins = map[string]builtin{
	"Isinteger":    {1, kindTest(runtime.KindInteger)},
	"Isstring":     {1, kindTest(runtime.KindString)},
	"Isdummy":      {1, kindTest(runtime.KindDummy)},
	"Istuple":      {1, kindTest(runtime.KindTuple)},
	"Istruthvalue": {1, kindTest(runtime.KindBool)},
	"Isfunction":   {1, isFunction},
	"Stem":         {1, stem},
	"Stern":        {1, stern},
	"Conc":         {2, conc},
	"conc":         {2, conc},
	"Print":        {1, printValue},
	"print":        {1, printValue},
	"ItoS":         {1, itos},
	"Order":        {1, order},
	"Null":         {1, null},
	"neg":          {1, neg},
}

// IsBuiltin reports whether name resolves to a builtin when unbound.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinNames lists the builtin identifiers in sorted order.
func BuiltinNames() []string {
	names := lo.Keys(builtins)
	slices.Sort(names)
	return names
}

// applyBuiltin supplies one more operand. Builtins taking two operands
// return a partial application until the second arrives.
func (i *Interpreter) applyBuiltin(fn runtime.BuiltinValue, rand runtime.Value, line int) error {
	def, ok := builtins[fn.Name]
	if !ok {
		return evalErrorf(line, "don't know how to evaluate \"%s\"", fn.Name)
	}
	call := fn.WithArg(rand)
	if len(call.Args) < def.arity {
		i.push(call)
		return nil
	}
	result, err := def.fn(i, call.Args, line)
	if err != nil {
		return err
	}
	i.push(result)
	return nil
}

func kindTest(kind runtime.Kind) builtinFunc {
	return func(_ *Interpreter, args []runtime.Value, _ int) (runtime.Value, error) {
		return runtime.Bool(args[0].Kind() == kind), nil
	}
}

func isFunction(_ *Interpreter, args []runtime.Value, _ int) (runtime.Value, error) {
	return runtime.Bool(runtime.IsFunction(args[0])), nil
}

func stringArg(name string, v runtime.Value, line int) (string, error) {
	s, ok := v.(runtime.StringValue)
	if !ok {
		return "", evalErrorf(line, "%s expected a string; was given \"%s\"", name, v)
	}
	return s.Val, nil
}

func stem(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	s, err := stringArg("Stem", args[0], line)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return runtime.Str(""), nil
	}
	_, size := utf8.DecodeRuneInString(s)
	return runtime.Str(s[:size]), nil
}

func stern(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	s, err := stringArg("Stern", args[0], line)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return runtime.Str(""), nil
	}
	_, size := utf8.DecodeRuneInString(s)
	return runtime.Str(s[size:]), nil
}

func conc(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	a, ok1 := args[0].(runtime.StringValue)
	b, ok2 := args[1].(runtime.StringValue)
	if !ok1 || !ok2 {
		return nil, evalErrorf(line, "Conc expected two strings; was given \"%s\", \"%s\"", args[0], args[1])
	}
	return runtime.Str(a.Val + b.Val), nil
}

var printEscapes = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\t`, "\t", `\n`, "\n")

// Expand substitutes the escape sequences string literals keep as written.
func Expand(s string) string {
	return printEscapes.Replace(s)
}

func printValue(i *Interpreter, args []runtime.Value, _ int) (runtime.Value, error) {
	if _, err := io.WriteString(i.out, Expand(args[0].String())); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return runtime.DummyValue{}, nil
}

func itos(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	n, ok := args[0].(runtime.IntegerValue)
	if !ok {
		return nil, evalErrorf(line, "ItoS expected an integer; was given \"%s\"", args[0])
	}
	return runtime.Str(n.String()), nil
}

func order(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	tup, ok := args[0].(*runtime.TupleValue)
	if !ok {
		return nil, evalErrorf(line, "Order expected a tuple; was given \"%s\"", args[0])
	}
	return runtime.Int(int64(tup.Len())), nil
}

func null(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	tup, ok := args[0].(*runtime.TupleValue)
	if !ok {
		return nil, evalErrorf(line, "Null expected a tuple; was given \"%s\"", args[0])
	}
	return runtime.Bool(tup.Len() == 0), nil
}

func neg(_ *Interpreter, args []runtime.Value, line int) (runtime.Value, error) {
	n, ok := args[0].(runtime.IntegerValue)
	if !ok {
		return nil, evalErrorf(line, "neg expected an integer; was given \"%s\"", args[0])
	}
	return runtime.Int(-n.Val), nil
}
