// internal/operation/param.go
package operation

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// ParamKind tags the representation held by a Param.
type ParamKind int

const (
	// ParamFloat is a plain bound floating-point value.
	ParamFloat ParamKind = iota
	// ParamExpr is a symbolic parameter expression, not yet bound to a value.
	ParamExpr
	// ParamValue is an opaque externally-defined parameter object.
	ParamValue
)

func (k ParamKind) String() string {
	switch k {
	case ParamFloat:
		return "float"
	case ParamExpr:
		return "expr"
	case ParamValue:
		return "value"
	default:
		return "unknown"
	}
}

// Expr is a minimal symbolic parameter expression of the form
// Scale*Symbol + Offset. It is enough to express the rotation-angle
// bookkeeping the graph layer needs without a full expression tree.
type Expr struct {
	Symbol string
	Scale  float64
	Offset float64
}

// Symbolic returns the bare expression for a named symbol.
func Symbolic(symbol string) *Expr {
	return &Expr{Symbol: symbol, Scale: 1}
}

// Bind evaluates the expression at the given symbol value.
func (e *Expr) Bind(x float64) float64 {
	return e.Scale*x + e.Offset
}

// Equal is exact structural equality; two expressions over different symbols
// are never equal even if they would evaluate identically.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	return *e == *other
}

func (e *Expr) String() string {
	s := e.Symbol
	if e.Scale != 1 {
		s = strconv.FormatFloat(e.Scale, 'g', -1, 64) + "*" + s
	}
	if e.Offset != 0 {
		s += "+" + strconv.FormatFloat(e.Offset, 'g', -1, 64)
	}
	return s
}

// Param is one operation parameter: a float, a symbolic expression, or an
// opaque value.
type Param struct {
	kind ParamKind
	f    float64
	expr *Expr
	val  cty.Value
}

// Float wraps a bound floating-point parameter.
func Float(v float64) Param {
	return Param{kind: ParamFloat, f: v}
}

// Expression wraps a symbolic parameter expression.
func Expression(e *Expr) Param {
	return Param{kind: ParamExpr, expr: e}
}

// Value wraps an opaque parameter object.
func Value(v cty.Value) Param {
	return Param{kind: ParamValue, val: v}
}

// Kind reports which representation this parameter holds.
func (p Param) Kind() ParamKind { return p.kind }

// Float returns the bound value; ok is false unless Kind is ParamFloat.
func (p Param) Float() (float64, bool) { return p.f, p.kind == ParamFloat }

// Expr returns the symbolic expression; ok is false unless Kind is ParamExpr.
func (p Param) Expr() (*Expr, bool) { return p.expr, p.kind == ParamExpr }

// Value returns the opaque value; ok is false unless Kind is ParamValue.
func (p Param) Value() (cty.Value, bool) { return p.val, p.kind == ParamValue }

// Equal is exact: floats compare bitwise, expressions structurally, opaque
// values via cty's RawEquals. Parameters of different kinds are never equal.
func (p Param) Equal(other Param) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case ParamFloat:
		return p.f == other.f
	case ParamExpr:
		return p.expr.Equal(other.expr)
	case ParamValue:
		return p.val.RawEquals(other.val)
	default:
		return false
	}
}

// DeepCopy returns a parameter sharing no mutable state with the receiver.
func (p Param) DeepCopy() Param {
	if p.kind == ParamExpr && p.expr != nil {
		e := *p.expr
		return Param{kind: ParamExpr, expr: &e}
	}
	// Floats and cty values are immutable.
	return p
}

func (p Param) String() string {
	switch p.kind {
	case ParamFloat:
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case ParamExpr:
		return p.expr.String()
	case ParamValue:
		return p.val.GoString()
	default:
		return fmt.Sprintf("param(%d)", int(p.kind))
	}
}

// ParamsEqual compares two parameter tuples element-wise and exactly.
func ParamsEqual(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CopyParams returns a deep copy of a parameter tuple.
func CopyParams(ps []Param) []Param {
	if ps == nil {
		return nil
	}
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = p.DeepCopy()
	}
	return out
}
