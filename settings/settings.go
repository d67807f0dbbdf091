// Package settings turns a plugin's settings declaration object into a
// typed tree of settings and groups suitable for rendering as an
// attribute-typed option tree.
//
// The package layers four components over the symbolic evaluator: the
// options pattern matcher (enumerated-choice idioms), the type classifier
// (an ordered decision table), the default resolver, and the settings-tree
// extractor. All of them are pure over the parsed file; extraction of one
// file never mutates shared state.
package settings

import (
	"encoding/json"
	"sort"

	"github.com/deepnoodle-ai/settix/value"
)

// TargetType is the closed set of option types a setting can be assigned.
type TargetType string

const (
	Bool        TargetType = "bool"
	Str         TargetType = "str"
	Int         TargetType = "int"
	Float       TargetType = "float"
	NullableStr TargetType = "nullOr str"
	Attrs       TargetType = "attrs"
	ListOfStr   TargetType = "listOf str"
	ListOfAttrs TargetType = "listOf attrs"
	Enum        TargetType = "enum"
)

// Node is either a *Setting or a *Group.
type Node interface {
	nodeKind() string
}

// Setting is one leaf configuration item.
//
// Invariants: if Type is Enum, Choices is non-empty; a boolean type derived
// from a two-valued enumeration carries no Choices (they are collapsed
// away). A nil Default means the default could not be resolved and must be
// omitted from output rather than fabricated.
type Setting struct {
	Name          string
	Type          TargetType
	Description   string
	Default       value.Value
	Choices       []value.Value
	// Labels is aligned with Choices; an empty string marks an unlabeled
	// choice. Nil when no choice carries a label.
	Labels []string
	Example       string
	Hidden        bool
	RestartNeeded bool
}

func (s *Setting) nodeKind() string { return "setting" }

// MarshalJSON renders the setting for the external serializer. The default
// key is omitted entirely when the default is unresolved.
func (s *Setting) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"type": string(s.Type),
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Default != nil {
		out["default"] = s.Default
	}
	if len(s.Choices) > 0 {
		out["choices"] = s.Choices
	}
	if len(s.Labels) > 0 {
		out["labels"] = s.Labels
	}
	if s.Example != "" {
		out["example"] = s.Example
	}
	if s.Hidden {
		out["hidden"] = true
	}
	if s.RestartNeeded {
		out["restartNeeded"] = true
	}
	return json.Marshal(out)
}

// Group is a named container of nested settings and groups.
type Group struct {
	Name     string
	Children map[string]Node

	// order preserves declaration order for display purposes; the
	// Children map itself is unordered.
	order []string
}

func (g *Group) nodeKind() string { return "group" }

// NewGroup returns an empty group with the given name.
func NewGroup(name string) *Group {
	return &Group{Name: name, Children: map[string]Node{}}
}

// Add inserts a child node, preserving declaration order.
func (g *Group) Add(name string, node Node) {
	if _, exists := g.Children[name]; !exists {
		g.order = append(g.order, name)
	}
	g.Children[name] = node
}

// DeclaredOrder returns child names in declaration order.
func (g *Group) DeclaredOrder() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// SortedNames returns child names sorted lexically, the deterministic
// order used for emission.
func (g *Group) SortedNames() []string {
	names := make([]string, 0, len(g.Children))
	for name := range g.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.Children) }

// MarshalJSON renders the group with children in sorted-name order so the
// output is byte-identical across runs.
func (g *Group) MarshalJSON() ([]byte, error) {
	ordered := make(map[string]json.RawMessage, len(g.Children))
	for _, name := range g.SortedNames() {
		raw, err := json.Marshal(g.Children[name])
		if err != nil {
			return nil, err
		}
		ordered[name] = raw
	}
	return json.Marshal(ordered)
}
