package expr

import (
	"fmt"
	"strconv"
	"strings"

	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// SysFunc is the set of built-in scalar functions.
type SysFunc int

const (
	SysFuncLength SysFunc = iota
	SysFuncRound
	SysFuncDateFormat
)

func (f SysFunc) String() string {
	switch f {
	case SysFuncLength:
		return "LENGTH"
	case SysFuncRound:
		return "ROUND"
	case SysFuncDateFormat:
		return "DATE_FORMAT"
	default:
		return "UNKNOWN"
	}
}

// SysFunctionExpr calls one of the built-in scalar functions over its
// arguments. LENGTH takes one Chars argument; ROUND takes a numeric
// argument and an optional Int precision (0 if omitted); DATE_FORMAT
// takes a Date argument and a Chars format string.
type SysFunctionExpr struct {
	header    Header
	function  SysFunc
	args      []Expr
	valueType types.Kind
}

// NewSysFunctionExpr builds a system function call.
func NewSysFunctionExpr(function SysFunc, args []Expr, valueType types.Kind) *SysFunctionExpr {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Header().DisplayName()
	}
	h := NewHeader(fmt.Sprintf("%s(%s)", function, strings.Join(names, ", ")))
	return &SysFunctionExpr{header: h, function: function, args: args, valueType: valueType}
}

func (e *SysFunctionExpr) Kind() Kind            { return KindSysFunction }
func (e *SysFunctionExpr) Header() *Header       { return &e.header }
func (e *SysFunctionExpr) ValueType() types.Kind { return e.valueType }
func (e *SysFunctionExpr) ValueLength() int      { return 0 }
func (e *SysFunctionExpr) Function() SysFunc     { return e.function }
func (e *SysFunctionExpr) Args() []Expr          { return e.args }

func (e *SysFunctionExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	args := make([]types.Value, len(e.args))
	for i, a := range e.args {
		v, err := a.EvalRow(t)
		if err != nil {
			return types.Value{}, err
		}
		if v.IsNull() {
			return types.Null(), nil
		}
		args[i] = v
	}

	switch e.function {
	case SysFuncLength:
		return e.evalLength(args)
	case SysFuncRound:
		return e.evalRound(args)
	case SysFuncDateFormat:
		return e.evalDateFormat(args)
	default:
		return types.Value{}, dberr.Newf(dberr.InvalidArgument, dberr.CategoryUser, "unknown system function %s", e.function)
	}
}

func (e *SysFunctionExpr) evalLength(args []types.Value) (types.Value, error) {
	if len(args) != 1 || args[0].Kind() != types.KindChars {
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "LENGTH requires one CHARS argument")
	}
	return types.NewInt(int32(args[0].Length())), nil
}

// evalRound formats the value as decimal text at the requested precision
// and reparses it, rather than scaling and rounding in floating point;
// Go's strconv float formatting rounds ties to even, matching the
// round-half-to-even contract.
func (e *SysFunctionExpr) evalRound(args []types.Value) (types.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "ROUND requires one or two arguments")
	}
	var f float64
	switch args[0].Kind() {
	case types.KindInt:
		f = float64(args[0].AsInt())
	case types.KindFloat:
		f = float64(args[0].AsFloat())
	default:
		return types.Value{}, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "ROUND requires a numeric argument")
	}
	precision := 0
	if len(args) == 2 {
		if args[1].Kind() != types.KindInt {
			return types.Value{}, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "ROUND precision must be INT")
		}
		precision = int(args[1].AsInt())
	}
	if precision < 0 {
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "ROUND precision must be non-negative")
	}
	text := strconv.FormatFloat(f, 'f', precision, 64)
	rounded, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.Internal, "round reparse", "expr")
	}
	return types.NewFloat(float32(rounded)), nil
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ordinalSuffix returns "st"/"nd"/"rd"/"th" for day, handling the
// 11th/12th/13th exception to the usual last-digit rule.
func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func (e *SysFunctionExpr) evalDateFormat(args []types.Value) (types.Value, error) {
	if len(args) != 2 || args[0].Kind() != types.KindDate || args[1].Kind() != types.KindChars {
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "DATE_FORMAT requires a DATE and a CHARS format")
	}
	year, month, day := types.UnpackDate(args[0].AsInt())

	var b strings.Builder
	format := args[1].AsChars()
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i == len(format)-1 {
			b.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", year)
		case 'y':
			fmt.Fprintf(&b, "%02d", year%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", month)
		case 'M':
			if month >= 1 && month <= 12 {
				b.WriteString(monthNames[month-1])
			}
		case 'd':
			fmt.Fprintf(&b, "%02d", day)
		case 'D':
			fmt.Fprintf(&b, "%d%s", day, ordinalSuffix(day))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return types.NewChars(b.String()), nil
}

// EvalColumn has no vectorized kernel: LENGTH and DATE_FORMAT operate
// on Chars or Date arguments, neither of which the column batch
// representation carries, and ROUND is evaluated on the row path too.
func (e *SysFunctionExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindSysFunction)
}
