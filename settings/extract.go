package settings

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/program"
	"github.com/deepnoodle-ai/settix/value"
)

const restartMarker = " (restart required)"

// Issue records a per-setting extraction failure. Issues never abort
// extraction of sibling settings; the offending setting is simply absent
// from the resulting tree.
type Issue struct {
	Setting string
	Err     error
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %v", i.Setting, i.Err)
}

// Extractor walks a settings declaration object and builds the
// setting/group tree. An Extractor is bound to one parsed file and is safe
// to discard after a single Extract call.
type Extractor struct {
	ev            *eval.Evaluator
	matcher       *Matcher
	classifier    *Classifier
	defaults      *Defaults
	includeHidden bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithHidden retains settings marked hidden: true. Hidden settings are
// dropped from end-user output but kept when building the canonical
// representation used for deprecation tracking.
func WithHidden() ExtractorOption {
	return func(e *Extractor) { e.includeHidden = true }
}

// NewExtractor returns an Extractor bound to the given parsed file.
func NewExtractor(file *program.File, opts ...ExtractorOption) *Extractor {
	ev := eval.New(file)
	e := &Extractor{
		ev:         ev,
		matcher:    NewMatcher(ev),
		classifier: NewClassifier(ev.Resolver()),
		defaults:   NewDefaults(ev),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the tree rooted at the given settings object. The
// returned issues describe settings that were omitted; they are reported,
// never fatal.
func (e *Extractor) Extract(obj *ast.Object) (*Group, []Issue) {
	root := NewGroup("")
	issues := e.extractInto(root, obj, "")
	return root, issues
}

func (e *Extractor) extractInto(group *Group, obj *ast.Object, prefix string) []Issue {
	var issues []Issue
	for _, prop := range obj.Properties {
		if prop.Key == "" || prop.IsSpread() {
			continue
		}
		child, ok := ast.Unwrap(valueOf(prop)).(*ast.Object)
		if !ok {
			// Non-object properties are not settings.
			continue
		}
		path := prop.Key
		if prefix != "" {
			path = prefix + "." + prop.Key
		}
		if isGroup(child) {
			nested := NewGroup(prop.Key)
			issues = append(issues, e.extractInto(nested, child, path)...)
			if nested.Len() > 0 {
				group.Add(prop.Key, nested)
			}
			continue
		}
		setting, err := e.extractSetting(prop.Key, child)
		if err != nil {
			issues = append(issues, Issue{Setting: path, Err: err})
			continue
		}
		if setting == nil {
			continue // hidden and not retained
		}
		group.Add(prop.Key, setting)
	}
	return issues
}

// isGroup reports whether an object literal is a nested settings group: it
// must contain at least one object-literal-valued property and must not
// itself declare a type or description. Shape decides, not naming.
func isGroup(obj *ast.Object) bool {
	if obj.HasProp("type") || obj.HasProp("description") {
		return false
	}
	for _, p := range obj.Properties {
		if p.Key == "" || p.IsSpread() || p.Getter {
			continue
		}
		if _, ok := ast.Unwrap(valueOf(p)).(*ast.Object); ok {
			return true
		}
	}
	return false
}

func (e *Extractor) extractSetting(name string, obj *ast.Object) (*Setting, error) {
	hidden := e.boolProp(obj, "hidden")
	if hidden && !e.includeHidden {
		return nil, nil
	}

	setting := &Setting{
		Name:          name,
		Hidden:        hidden,
		RestartNeeded: e.boolProp(obj, "restartNeeded"),
	}

	setting.Description = e.stringProp(obj, "description")
	if setting.Description == "" {
		setting.Description = e.stringProp(obj, "name")
	}
	if setting.RestartNeeded && setting.Description != "" {
		setting.Description += restartMarker
	}

	choices, _ := e.matcher.Extract(obj.Prop("options"))

	defaultExpr := obj.Prop("default")
	var evaluated value.Value
	if defaultExpr != nil {
		if v, err := e.ev.Evaluate(defaultExpr); err == nil {
			evaluated = v
		}
	}

	targetType := e.classifier.Classify(classifyInput{
		Annotation:  annotationToken(obj.Prop("type")),
		DefaultExpr: defaultExpr,
		Default:     evaluated,
		Choices:     choices,
	})

	finalType, def, err := e.defaults.Resolve(defaultInput{
		Type:        targetType,
		DefaultExpr: defaultExpr,
		IsGetter:    obj.GetterProp("default"),
		Default:     evaluated,
		Choices:     choices,
	})
	if err != nil {
		return nil, err
	}
	setting.Type = finalType
	setting.Default = def

	// A two-valued boolean enumeration collapsed to Bool carries no
	// choices in the output.
	if finalType == Enum {
		setting.Choices = choices.Values
		setting.Labels = choices.Labels()
	}

	if example := e.stringProp(obj, "placeholder"); example != "" {
		if !strings.Contains(setting.Description, example) {
			setting.Example = example
		}
	}
	return setting, nil
}

// annotationToken extracts the token of a type annotation such as
// OptionType.BOOLEAN. Bare identifiers are accepted for destructured
// imports of the annotation constants.
func annotationToken(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	switch e := ast.Unwrap(expr).(type) {
	case *ast.GetAttr:
		return e.Attr.Name
	case *ast.Ident:
		return e.Name
	}
	return ""
}

func (e *Extractor) stringProp(obj *ast.Object, name string) string {
	expr := obj.Prop(name)
	if expr == nil {
		return ""
	}
	v, err := e.ev.Evaluate(expr)
	if err != nil {
		return ""
	}
	s, _ := value.AsString(v)
	return s
}

func (e *Extractor) boolProp(obj *ast.Object, name string) bool {
	expr := obj.Prop(name)
	if expr == nil {
		return false
	}
	v, err := e.ev.Evaluate(expr)
	if err != nil {
		return false
	}
	b, ok := v.(*value.Bool)
	return ok && b.Value
}

// valueOf returns a property's initializer, nil for getters and method
// shorthand forms.
func valueOf(p ast.Property) ast.Expr {
	if p.Getter {
		return nil
	}
	return p.Value
}
