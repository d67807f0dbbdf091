package settings

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/errz"
	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/value"
)

// Choices is an extracted enumeration: the ordered literal choice values,
// per-position display labels, and the positions that carried an explicit
// "default: true" marker.
type Choices struct {
	Values  []value.Value
	labels  []string
	markers []bool
}

// Labels returns display labels aligned with Values (empty string for an
// unlabeled choice), or nil when no choice carries a label. Labels are
// positional so two choices sharing a textual rendering stay distinct.
func (c *Choices) Labels() []string {
	if c == nil {
		return nil
	}
	for _, label := range c.labels {
		if label != "" {
			out := make([]string, len(c.labels))
			copy(out, c.labels)
			return out
		}
	}
	return nil
}

// Empty reports whether no enumeration idiom matched.
func (c *Choices) Empty() bool {
	return c == nil || len(c.Values) == 0
}

// Marked returns the first choice carrying an explicit default marker.
func (c *Choices) Marked() (value.Value, bool) {
	if c == nil {
		return nil, false
	}
	for i, marked := range c.markers {
		if marked && i < len(c.Values) {
			return c.Values[i], true
		}
	}
	return nil, false
}

// BoolPair reports whether the choices are exactly two distinct boolean
// values, the shape that collapses to a plain boolean type.
func (c *Choices) BoolPair() bool {
	if c == nil || len(c.Values) != 2 {
		return false
	}
	a, aOK := c.Values[0].(*value.Bool)
	b, bOK := c.Values[1].(*value.Bool)
	return aOK && bOK && a.Value != b.Value
}

func (c *Choices) add(v value.Value, label string, marked bool) {
	c.Values = append(c.Values, v)
	c.labels = append(c.labels, label)
	c.markers = append(c.markers, marked)
}

// Matcher recognizes the catalogue of idioms used to enumerate a closed
// set of choices. Idioms are tried in a fixed order and the first success
// wins; when none matches the result is empty, which callers must treat as
// "this setting is not enumerated", never as a failure.
type Matcher struct {
	ev *eval.Evaluator
}

// NewMatcher returns a Matcher evaluating against the given evaluator.
func NewMatcher(ev *eval.Evaluator) *Matcher {
	return &Matcher{ev: ev}
}

// Extract extracts enumerated choices from a setting's options expression.
// The result order matches source declaration order. The returned error is
// diagnostic only: whenever it is non-nil the choices are empty.
func (m *Matcher) Extract(expr ast.Expr) (*Choices, error) {
	if expr == nil {
		return &Choices{}, nil
	}
	expr = ast.Unwrap(expr)

	// Idioms 1 and 2: literal arrays of values or of {value, label} objects.
	if arr, ok := expr.(*ast.Array); ok {
		if choices, ok := m.literalArray(arr); ok {
			return choices, nil
		}
		return m.objectArray(arr, true)
	}

	if call, ok := expr.(*ast.Call); ok {
		// Idiom 4: Array.from(...) delegates to the literal-array rule.
		if choices, ok, err := m.arrayFrom(call); ok || err != nil {
			return choices, err
		}
		// Idiom 3: .map over a literal array, Object.keys, or Object.values.
		if choices, ok, err := m.mapCall(call); ok || err != nil {
			return choices, err
		}
		// Idiom 5: lookup-table mapping. Narrow by design; see the note at
		// lookupTableMap.
		if choices, ok, err := m.lookupTableMap(call); ok || err != nil {
			return choices, err
		}
	}

	return &Choices{}, nil
}

// literalArray matches idiom 1: an array of plain literal values.
func (m *Matcher) literalArray(arr *ast.Array) (*Choices, bool) {
	if len(arr.Elements) == 0 {
		return nil, false
	}
	choices := &Choices{}
	for _, element := range arr.Elements {
		element = ast.Unwrap(element)
		switch element.(type) {
		case *ast.Object, *ast.Spread:
			return nil, false
		}
		v, err := m.ev.Evaluate(element)
		if err != nil {
			return nil, false
		}
		choices.add(v, "", false)
	}
	return choices, true
}

// objectArray matches idiom 2: an array of object literals each carrying a
// "value" field with optional "label" and "default" fields. Spread
// elements naming an identifier are expanded one level deep by resolving
// the identifier to its own array literal.
func (m *Matcher) objectArray(arr *ast.Array, expandSpreads bool) (*Choices, error) {
	choices := &Choices{}
	for _, element := range arr.Elements {
		element = ast.Unwrap(element)
		switch el := element.(type) {
		case *ast.Object:
			if err := m.addChoiceObject(choices, el, nil); err != nil {
				return &Choices{}, err
			}
		case *ast.Spread:
			if !expandSpreads {
				return &Choices{}, errz.New(errz.UnsupportedPattern, el,
					"nested spread in options array")
			}
			ident, ok := ast.Unwrap(el.X).(*ast.Ident)
			if !ok {
				return &Choices{}, errz.New(errz.UnsupportedPattern, el,
					"options spread of a non-identifier")
			}
			inner, ok := m.ev.Resolver().ResolveArray(ident.Name)
			if !ok {
				return &Choices{}, errz.New(errz.UnsupportedPattern, el,
					"options spread %q does not resolve to an array", ident.Name)
			}
			expanded, err := m.objectArray(inner, false)
			if err != nil {
				return &Choices{}, err
			}
			// Also accept plain literal arrays behind a spread.
			if expanded.Empty() {
				if lit, ok := m.literalArray(inner); ok {
					expanded = lit
				}
			}
			for i, v := range expanded.Values {
				choices.add(v, expanded.labels[i], expanded.markers[i])
			}
		default:
			return &Choices{}, errz.New(errz.UnsupportedPattern, element,
				"options array mixes objects with other elements")
		}
	}
	return choices, nil
}

// addChoiceObject extracts value/label/default from one choice object,
// evaluating with env in scope (non-nil for mapped idioms).
func (m *Matcher) addChoiceObject(choices *Choices, obj *ast.Object, env eval.Env) error {
	valueExpr := obj.Prop("value")
	if valueExpr == nil {
		return errz.New(errz.MissingRequiredProperty, obj,
			"choice object has no value property")
	}
	v, err := m.ev.EvaluateWith(valueExpr, env)
	if err != nil {
		return err
	}
	label := ""
	if labelExpr := obj.Prop("label"); labelExpr != nil {
		lv, err := m.ev.EvaluateWith(labelExpr, env)
		if err == nil {
			if s, ok := value.AsString(lv); ok {
				label = s
			}
		}
	}
	marked := false
	if defaultExpr := obj.Prop("default"); defaultExpr != nil {
		dv, err := m.ev.EvaluateWith(defaultExpr, env)
		if err == nil {
			if b, ok := dv.(*value.Bool); ok {
				marked = b.Value
			}
		}
	}
	choices.add(v, label, marked)
	return nil
}

// arrayFrom matches idiom 4: Array.from(x) where x is a literal array or
// an identifier resolving to one.
func (m *Matcher) arrayFrom(call *ast.Call) (*Choices, bool, error) {
	attr, ok := ast.Unwrap(call.Fun).(*ast.GetAttr)
	if !ok || attr.Attr.Name != "from" {
		return nil, false, nil
	}
	base, ok := ast.Unwrap(attr.X).(*ast.Ident)
	if !ok || base.Name != "Array" || len(call.Args) == 0 {
		return nil, false, nil
	}
	arr, ok := ast.Unwrap(call.Args[0]).(*ast.Array)
	if !ok {
		if ident, isIdent := ast.Unwrap(call.Args[0]).(*ast.Ident); isIdent {
			arr, ok = m.ev.Resolver().ResolveArray(ident.Name)
		}
	}
	if !ok {
		return nil, true, errz.New(errz.UnsupportedPattern, call,
			"Array.from over an unresolvable source")
	}
	choices, matched := m.literalArray(arr)
	if !matched {
		return &Choices{}, true, errz.New(errz.UnsupportedPattern, arr,
			"Array.from source is not a plain literal array")
	}
	return choices, true, nil
}

// mapSource describes the elements a .map receiver produces: a binding for
// the mapping parameter per element.
type mapSource struct {
	elements []value.Value
}

// mapCall matches idiom 3: a .map(...) call whose receiver is a literal
// array, Object.keys(x), or Object.values(x), with a mapping function that
// returns a {value, label?} object literal.
func (m *Matcher) mapCall(call *ast.Call) (*Choices, bool, error) {
	attr, ok := ast.Unwrap(call.Fun).(*ast.GetAttr)
	if !ok || attr.Attr.Name != "map" || len(call.Args) == 0 {
		return nil, false, nil
	}
	source, ok, err := m.mapReceiver(ast.Unwrap(attr.X))
	if !ok || err != nil {
		return nil, ok, err
	}
	return m.runMapper(call, source)
}

// runMapper evaluates a .map mapping function once per source element.
func (m *Matcher) runMapper(call *ast.Call, source *mapSource) (*Choices, bool, error) {
	arrow, ok := ast.Unwrap(call.Args[0]).(*ast.Arrow)
	if !ok || arrow.Body == nil || len(arrow.Params) == 0 {
		return &Choices{}, true, errz.New(errz.UnsupportedPattern, call.Args[0],
			"mapping function is not an evaluable arrow function")
	}
	body, ok := ast.Unwrap(arrow.Body).(*ast.Object)
	if !ok {
		return &Choices{}, true, errz.New(errz.UnsupportedPattern, arrow.Body,
			"mapping function does not return an object literal")
	}
	choices := &Choices{}
	for i, element := range source.elements {
		env := eval.Env{arrow.Params[0].Name: element}
		if len(arrow.Params) > 1 {
			env[arrow.Params[1].Name] = &value.Int{Value: int64(i)}
		}
		if err := m.addChoiceObject(choices, body, env); err != nil {
			return &Choices{}, true, err
		}
	}
	return choices, true, nil
}

// mapReceiver evaluates the receiver of a .map call into its elements.
func (m *Matcher) mapReceiver(receiver ast.Expr) (*mapSource, bool, error) {
	switch r := receiver.(type) {
	case *ast.Array:
		elements := make([]value.Value, 0, len(r.Elements))
		for _, el := range r.Elements {
			v, err := m.ev.Evaluate(el)
			if err != nil {
				return nil, true, err
			}
			elements = append(elements, v)
		}
		return &mapSource{elements: elements}, true, nil
	case *ast.Call:
		attr, ok := ast.Unwrap(r.Fun).(*ast.GetAttr)
		if !ok {
			return nil, false, nil
		}
		base, ok := ast.Unwrap(attr.X).(*ast.Ident)
		if !ok || base.Name != "Object" || len(r.Args) == 0 {
			return nil, false, nil
		}
		ident, ok := ast.Unwrap(r.Args[0]).(*ast.Ident)
		if !ok {
			return nil, false, nil
		}
		obj, ok := m.ev.Resolver().ResolveObject(ident.Name)
		if !ok {
			return nil, true, errz.New(errz.UnsupportedPattern, r,
				"Object.%s source %q does not resolve to an object literal",
				attr.Attr.Name, ident.Name)
		}
		switch attr.Attr.Name {
		case "keys":
			var elements []value.Value
			for _, p := range obj.Properties {
				if p.Key == "" {
					continue
				}
				elements = append(elements, &value.String{Value: p.Key})
			}
			return &mapSource{elements: elements}, true, nil
		case "values":
			var elements []value.Value
			for _, p := range obj.Properties {
				if p.Key == "" || p.Getter || p.Value == nil {
					continue
				}
				v, err := m.ev.Evaluate(p.Value)
				if err != nil {
					return nil, true, err
				}
				elements = append(elements, v)
			}
			return &mapSource{elements: elements}, true, nil
		}
		return nil, false, nil
	}
	return nil, false, nil
}

// lookupTableMap matches idiom 5: a .map over an identifier that resolves
// to an array of names, where the mapping body composes each value by
// interpolating a shared lookup table and named constants declared in the
// same file.
//
// This idiom is deliberately narrow: it mirrors one naming convention
// observed in real plugin sources (a table of derived URLs or paths plus a
// base and revision constant). It is an extension point; widening it
// should wait for evidence of additional idioms.
func (m *Matcher) lookupTableMap(call *ast.Call) (*Choices, bool, error) {
	attr, ok := ast.Unwrap(call.Fun).(*ast.GetAttr)
	if !ok || attr.Attr.Name != "map" || len(call.Args) == 0 {
		return nil, false, nil
	}
	ident, ok := ast.Unwrap(attr.X).(*ast.Ident)
	if !ok {
		return nil, false, nil
	}
	arr, ok := m.ev.Resolver().ResolveArray(ident.Name)
	if !ok {
		return nil, false, nil
	}
	elements := make([]value.Value, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		v, err := m.ev.Evaluate(el)
		if err != nil {
			return nil, true, err
		}
		if _, isString := value.AsString(v); !isString {
			return &Choices{}, true, errz.New(errz.UnsupportedPattern, el,
				"lookup-table source element is not a name string")
		}
		elements = append(elements, v)
	}
	return m.runMapper(call, &mapSource{elements: elements})
}
