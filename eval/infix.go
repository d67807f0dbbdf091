package eval

import (
	"math"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/errz"
	"github.com/deepnoodle-ai/settix/value"
)

// supportedOperators is the closed set of binary operators the evaluator
// accepts. Anything else that parsed (comparisons, logical operators)
// fails with UnsupportedOperator.
var supportedOperators = map[string]bool{
	"|": true, "&": true, "^": true,
	"<<": true, ">>": true, ">>>": true,
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

// evalInfix evaluates a binary expression over two numeric operands.
// Bitwise operators use 32-bit integer semantics with ">>>" unsigned, as
// the source language defines them. An arithmetic result is integral iff
// both operands are integral and the result is a whole number.
func (e *Evaluator) evalInfix(infix *ast.Infix, env Env, depth int) (value.Value, error) {
	if !supportedOperators[infix.Op] {
		return nil, errz.New(errz.UnsupportedOperator, infix,
			"operator %q is not evaluable", infix.Op)
	}
	left, err := e.eval(infix.X, env, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(infix.Y, env, depth+1)
	if err != nil {
		return nil, err
	}
	if !value.IsNumeric(left) {
		return nil, errz.New(errz.NonNumericOperand, infix.X,
			"left operand of %q is a %s value", infix.Op, left.Type())
	}
	if !value.IsNumeric(right) {
		return nil, errz.New(errz.NonNumericOperand, infix.Y,
			"right operand of %q is a %s value", infix.Op, right.Type())
	}

	lf, _ := value.AsFloat(left)
	rf, _ := value.AsFloat(right)

	switch infix.Op {
	case "|":
		return &value.Int{Value: int64(toInt32(lf) | toInt32(rf))}, nil
	case "&":
		return &value.Int{Value: int64(toInt32(lf) & toInt32(rf))}, nil
	case "^":
		return &value.Int{Value: int64(toInt32(lf) ^ toInt32(rf))}, nil
	case "<<":
		return &value.Int{Value: int64(toInt32(lf) << (toUint32(rf) & 31))}, nil
	case ">>":
		return &value.Int{Value: int64(toInt32(lf) >> (toUint32(rf) & 31))}, nil
	case ">>>":
		return &value.Int{Value: int64(toUint32(lf) >> (toUint32(rf) & 31))}, nil
	}

	var result float64
	switch infix.Op {
	case "+":
		result = lf + rf
	case "-":
		result = lf - rf
	case "*":
		result = lf * rf
	case "/":
		if rf == 0 {
			return nil, errz.New(errz.DivisionByZero, infix.Y,
				"division by zero")
		}
		result = lf / rf
	case "%":
		if rf == 0 {
			return nil, errz.New(errz.DivisionByZero, infix.Y,
				"modulo by zero")
		}
		result = math.Mod(lf, rf)
	}

	bothIntegral := left.Type() == value.INT && right.Type() == value.INT
	if bothIntegral && result == math.Trunc(result) {
		return &value.Int{Value: int64(result)}, nil
	}
	return &value.Float{Value: result}, nil
}

// toInt32 applies the source language's ToInt32 conversion.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

// toUint32 applies the source language's ToUint32 conversion.
func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}
