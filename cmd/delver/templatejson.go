package main

// This file is the CLI's own minimal adapter from a JSON transport shape
// to the template DOM (template.Root/Element/Value/MatchExpression).
// It is not a template language parser; it's a thin, CLI-only
// convenience for feeding an already-structured template into
// delver.Process, so the binary has something runnable to read besides
// hand-built Go literals.

import (
	"encoding/json"
	"fmt"

	"github.com/delvergo/delver/template"
)

type jsonRoot struct {
	Elements         []jsonElement            `json:"elements"`
	MatchDefinitions map[string]jsonMatchExpr `json:"match_definitions"`
}

type jsonElement struct {
	Name       string                `json:"name"`
	Attributes map[string]jsonValue  `json:"attributes"`
	Children   []jsonElement         `json:"children"`
}

// jsonValue decodes the template DOM's typed Value union from a plain
// JSON scalar/array: a string beginning with "$" is an Identifier
// reference into match_definitions, any other string/number/bool/array
// maps directly.
type jsonValue struct {
	raw interface{}
}

func (v *jsonValue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &v.raw)
}

func (v jsonValue) toValue() template.Value {
	switch t := v.raw.(type) {
	case string:
		if len(t) > 0 && t[0] == '$' {
			return template.IdentifierValue(t[1:])
		}
		return template.StringValue(t)
	case float64:
		return template.NumberValue(int64(t))
	case bool:
		return template.BooleanValue(t)
	case []interface{}:
		vals := make([]template.Value, 0, len(t))
		for _, e := range t {
			b, _ := json.Marshal(e)
			var jv jsonValue
			_ = jv.UnmarshalJSON(b)
			vals = append(vals, jv.toValue())
		}
		return template.ArrayValue(vals)
	default:
		return template.Value{}
	}
}

// jsonMatchExpr decodes a MatchExpression: either a leaf MatchConfig
// ({"kind":"Text","pattern":"...","threshold":300}) or a combinator
// FunctionCall ({"fn":"FirstMatch","args":[...]}).
type jsonMatchExpr struct {
	Kind      string          `json:"kind"`
	Pattern   string          `json:"pattern"`
	Threshold int64           `json:"threshold"`
	Fn        string          `json:"fn"`
	Args      []jsonMatchExpr `json:"args"`
}

func (e jsonMatchExpr) toExpr() (template.MatchExpression, error) {
	if e.Fn != "" {
		args := make([]template.MatchExpression, 0, len(e.Args))
		for _, a := range e.Args {
			expr, err := a.toExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, expr)
		}
		return template.FunctionCall{Name: e.Fn, Args: args}, nil
	}

	var kind template.MatchKind
	switch e.Kind {
	case "", "Text":
		kind = template.MatchText
	case "Semantic":
		kind = template.MatchSemantic
	case "Regex":
		kind = template.MatchRegex
	default:
		return nil, fmt.Errorf("templatejson: unknown MatchConfig kind %q", e.Kind)
	}
	return template.MatchConfig{
		Kind:      kind,
		Pattern:   e.Pattern,
		Threshold: float64(e.Threshold) / 1000.0,
	}, nil
}

// parseTemplateRoot decodes the CLI's JSON template transport shape into
// a template.Root ready for delver.Process.
func parseTemplateRoot(data []byte) (*template.Root, error) {
	var jr jsonRoot
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, fmt.Errorf("templatejson: decode: %w", err)
	}

	root := &template.Root{MatchDefinitions: map[string]template.MatchExpression{}}
	for name, expr := range jr.MatchDefinitions {
		e, err := expr.toExpr()
		if err != nil {
			return nil, err
		}
		root.MatchDefinitions[name] = e
	}
	for _, el := range jr.Elements {
		root.Elements = append(root.Elements, el.toElement())
	}
	return root, nil
}

func (e jsonElement) toElement() *template.Element {
	attrs := make(map[string]template.Value, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = v.toValue()
	}
	children := make([]*template.Element, 0, len(e.Children))
	for _, c := range e.Children {
		children = append(children, c.toElement())
	}
	return &template.Element{Name: e.Name, Attributes: attrs, Children: children}
}
