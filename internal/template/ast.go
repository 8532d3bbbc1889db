// Package template implements the extraction template DSL. A template is
// a list of element expressions, optionally preceded by named match
// definitions:
//
//	Match<Section> MDandA {
//	    Text("Management's Discussion", threshold=0.9)
//	}
//
//	TextChunk(chunkSize=1000)
//	Section(match=MDandA, end_match="Quantitative and Qualitative", as="mda") {
//	    TextChunk(chunkSize=500, chunkOverlap=150)
//	}
package template

import "fmt"

type ValueKind int

const (
	StringValue ValueKind = iota
	NumberValue
	BoolValue
	IdentifierValue
	ArrayValue
)

// Value is an attribute value. Exactly one field besides Kind is
// meaningful.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
}

func String(s string) Value     { return Value{Kind: StringValue, Str: s} }
func Number(n float64) Value    { return Value{Kind: NumberValue, Num: n} }
func Boolean(b bool) Value      { return Value{Kind: BoolValue, Bool: b} }
func Identifier(s string) Value { return Value{Kind: IdentifierValue, Str: s} }

func (v Value) AsString() (string, bool) {
	return v.Str, v.Kind == StringValue
}

func (v Value) AsFloat() (float64, bool) {
	return v.Num, v.Kind == NumberValue
}

func (v Value) AsInt() (int, bool) {
	if v.Kind != NumberValue {
		return 0, false
	}
	return int(v.Num), true
}

// Element is one node of the template tree. Sibling links let the matcher
// reason about chunks declared before or after a section.
type Element struct {
	Name     string
	Attrs    map[string]Value
	Children []*Element

	Parent *Element
	Prev   *Element
	Next   *Element
}

// Element names the matcher understands. Unknown names parse fine and are
// skipped during alignment.
const (
	SectionElement   = "Section"
	TextChunkElement = "TextChunk"
)

func (e *Element) IsSection() bool   { return e.Name == SectionElement }
func (e *Element) IsTextChunk() bool { return e.Name == TextChunkElement }

// MatchClause is a single Text(...) alternative inside a match definition.
// A zero Threshold means "use the caller's default".
type MatchClause struct {
	Pattern   string
	Threshold float64
}

// MatchDef is a named, reusable match block: Match<Target> Name { ... }.
type MatchDef struct {
	Name    string
	Target  string
	Clauses []MatchClause
}

// Root is a parsed template.
type Root struct {
	Elements  []*Element
	MatchDefs map[string]*MatchDef
}

// MatchConfig is the resolved matching configuration for an element: one
// or more pattern alternatives with per-clause thresholds filled in.
type MatchConfig struct {
	Clauses []MatchClause
}

// ResolveMatch resolves an element's match attribute against the root's
// match definitions. A string attribute is a single inline clause; an
// identifier refers to a named definition.
func (r *Root) ResolveMatch(e *Element, defaultThreshold float64) (*MatchConfig, error) {
	attr, ok := e.Attrs["match"]
	if !ok {
		return nil, fmt.Errorf("element %s has no match attribute", e.Name)
	}

	threshold := defaultThreshold
	if t, ok := e.Attrs["threshold"]; ok {
		if f, ok := t.AsFloat(); ok {
			threshold = f
		}
	}

	switch attr.Kind {
	case StringValue:
		return &MatchConfig{Clauses: []MatchClause{{Pattern: attr.Str, Threshold: threshold}}}, nil
	case IdentifierValue:
		def, ok := r.MatchDefs[attr.Str]
		if !ok {
			return nil, fmt.Errorf("element %s references undefined match %q", e.Name, attr.Str)
		}
		clauses := make([]MatchClause, len(def.Clauses))
		for i, clause := range def.Clauses {
			if clause.Threshold == 0 {
				clause.Threshold = threshold
			}
			clauses[i] = clause
		}
		return &MatchConfig{Clauses: clauses}, nil
	default:
		return nil, fmt.Errorf("element %s has a non-string, non-identifier match attribute", e.Name)
	}
}
