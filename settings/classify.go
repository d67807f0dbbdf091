package settings

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/value"
)

// Annotation tokens as they appear on a setting's type property, e.g.
// OptionType.BOOLEAN. An empty token means the setting carried no
// recognizable annotation.
const (
	AnnBoolean   = "BOOLEAN"
	AnnString    = "STRING"
	AnnNumber    = "NUMBER"
	AnnBigInt    = "BIGINT"
	AnnSelect    = "SELECT"
	AnnSlider    = "SLIDER"
	AnnComponent = "COMPONENT"
	AnnCustom    = "CUSTOM"
	AnnArray     = "ARRAY"
)

// classifyInput is everything the decision table consults: the annotation
// token, the raw default initializer (for shape evidence), the evaluated
// default when one exists, and the extracted choices.
type classifyInput struct {
	Annotation  string
	DefaultExpr ast.Expr
	Default     value.Value
	Choices     *Choices
}

// Classifier assigns one target type per setting. The rules form an
// ordered decision table evaluated top to bottom; the first rule whose
// guard holds decides. Precedence is externally observable for ambiguous
// inputs, so the order here is load-bearing and mirrored by the tests.
type Classifier struct {
	res *eval.Resolver
}

// NewClassifier returns a classifier resolving identifier shapes through res.
func NewClassifier(res *eval.Resolver) *Classifier {
	return &Classifier{res: res}
}

type classifyRule struct {
	name  string
	apply func(c *Classifier, in classifyInput) (TargetType, bool)
}

var classifyRules = []classifyRule{
	// A two-valued boolean enumeration is just a boolean; the choices are
	// collapsed away by the extractor.
	{"bool-pair", func(c *Classifier, in classifyInput) (TargetType, bool) {
		if in.Choices.BoolPair() {
			return Bool, true
		}
		return "", false
	}},
	{"enum", func(c *Classifier, in classifyInput) (TargetType, bool) {
		if !in.Choices.Empty() {
			return Enum, true
		}
		return "", false
	}},
	{"annotation", func(c *Classifier, in classifyInput) (TargetType, bool) {
		switch in.Annotation {
		case AnnBoolean:
			return Bool, true
		case AnnString:
			return Str, true
		case AnnNumber:
			if f, ok := in.Default.(*value.Float); ok && !f.Integral() {
				return Float, true
			}
			return Int, true
		case AnnBigInt:
			return Int, true
		case AnnSlider:
			return Float, true
		case AnnSelect:
			// SELECT with no extractable choices degrades to a string.
			return Str, true
		}
		return "", false
	}},
	// Array-shaped defaults decide list types before generic shape
	// inference gets a chance to see them.
	{"array-default", func(c *Classifier, in classifyInput) (TargetType, bool) {
		arr, ok := c.resolveArrayShape(in.DefaultExpr)
		if !ok {
			return "", false
		}
		shape := arrayShape(arr)
		switch shape {
		case shapeStrings:
			return ListOfStr, true
		case shapeObjects:
			return ListOfAttrs, true
		case shapeEmpty:
			if in.Annotation == AnnComponent || in.Annotation == AnnCustom {
				return ListOfAttrs, true
			}
			return ListOfStr, true
		}
		return "", false
	}},
	// Component/custom annotations, or no annotation at all, classify by
	// the shape of whatever default evidence exists.
	{"shape", func(c *Classifier, in classifyInput) (TargetType, bool) {
		if in.Annotation != AnnComponent && in.Annotation != AnnCustom &&
			in.Annotation != AnnArray && in.Annotation != "" {
			return "", false
		}
		if in.DefaultExpr == nil {
			return Attrs, true
		}
		if _, ok := c.resolveArrayShape(in.DefaultExpr); ok {
			if in.Annotation == AnnArray {
				return Str, true
			}
			return Attrs, true
		}
		// A constructor-style call default is an attribute set; the
		// default resolver folds its argument statically.
		if _, ok := ast.Unwrap(in.DefaultExpr).(*ast.Call); ok && in.Annotation != AnnArray {
			return Attrs, true
		}
		switch in.Default.(type) {
		case *value.Bool:
			return Bool, true
		case *value.String:
			return Str, true
		case *value.Int:
			return Int, true
		case *value.Float:
			return Float, true
		}
		if _, ok := c.resolveObjectShape(in.DefaultExpr); ok {
			return Attrs, true
		}
		return Str, true
	}},
}

// Classify runs the decision table. The terminal fallback is Str.
func (c *Classifier) Classify(in classifyInput) TargetType {
	for _, rule := range classifyRules {
		if t, ok := rule.apply(c, in); ok {
			return t
		}
	}
	return Str
}

// resolveArrayShape unwraps expr and follows one identifier resolution to
// an array literal.
func (c *Classifier) resolveArrayShape(expr ast.Expr) (*ast.Array, bool) {
	if expr == nil {
		return nil, false
	}
	switch e := ast.Unwrap(expr).(type) {
	case *ast.Array:
		return e, true
	case *ast.Ident:
		return c.res.ResolveArray(e.Name)
	}
	return nil, false
}

// resolveObjectShape is resolveArrayShape for object literals.
func (c *Classifier) resolveObjectShape(expr ast.Expr) (*ast.Object, bool) {
	if expr == nil {
		return nil, false
	}
	switch e := ast.Unwrap(expr).(type) {
	case *ast.Object:
		return e, true
	case *ast.Ident:
		return c.res.ResolveObject(e.Name)
	}
	return nil, false
}

type arrayShapeKind int

const (
	shapeMixed arrayShapeKind = iota
	shapeEmpty
	shapeStrings
	shapeObjects
)

// arrayShape reports whether every element is a string literal, every
// element is an object literal, or neither.
func arrayShape(arr *ast.Array) arrayShapeKind {
	if len(arr.Elements) == 0 {
		return shapeEmpty
	}
	strings, objects := true, true
	for _, el := range arr.Elements {
		switch ast.Unwrap(el).(type) {
		case *ast.String, *ast.Template:
			objects = false
		case *ast.Object:
			strings = false
		default:
			return shapeMixed
		}
	}
	switch {
	case strings:
		return shapeStrings
	case objects:
		return shapeObjects
	}
	return shapeMixed
}
