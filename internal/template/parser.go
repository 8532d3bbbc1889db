package template

import (
	"strconv"
)

// Parse parses a template string into its element tree and match
// definitions.
func Parse(input string) (*Root, error) {
	p := &parser{lex: newLexer(input)}
	if err := p.next(); err != nil {
		return nil, err
	}

	root := &Root{MatchDefs: make(map[string]*MatchDef)}

	for p.tok.kind != tokenEOF {
		if p.tok.kind != tokenIdent {
			return nil, p.errorf("expected element name, got %s", p.tok)
		}

		if p.tok.text == "Match" {
			def, err := p.parseMatchDef()
			if err != nil {
				return nil, err
			}
			if _, exists := root.MatchDefs[def.Name]; exists {
				return nil, p.errorf("duplicate match definition %q", def.Name)
			}
			root.MatchDefs[def.Name] = def
			continue
		}

		elem, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		root.Elements = append(root.Elements, elem)
	}

	linkSiblings(nil, root.Elements)
	return root, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return p.lex.errorf(p.tok.line, p.tok.col, format, args...)
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.errorf("expected %s, got %s", what, p.tok)
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// parseElement parses Name(attrs...) { children... } with both the
// attribute list and the body optional.
func (p *parser) parseElement() (*Element, error) {
	name, err := p.expect(tokenIdent, "element name")
	if err != nil {
		return nil, err
	}

	elem := &Element{Name: name.text, Attrs: make(map[string]Value)}

	if p.tok.kind == tokenLParen {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.parseAttrs(elem); err != nil {
			return nil, err
		}
	}

	if p.tok.kind == tokenLBrace {
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.kind != tokenRBrace {
			if p.tok.kind == tokenEOF {
				return nil, p.errorf("unclosed element body for %s", elem.Name)
			}
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			child.Parent = elem
			elem.Children = append(elem.Children, child)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		linkSiblings(elem, elem.Children)
	}

	return elem, nil
}

func (p *parser) parseAttrs(elem *Element) error {
	for {
		if p.tok.kind == tokenRParen {
			return p.next()
		}

		key, err := p.expect(tokenIdent, "attribute name")
		if err != nil {
			return err
		}
		if _, err := p.expect(tokenEquals, `"="`); err != nil {
			return err
		}
		value, err := p.parseValue()
		if err != nil {
			return err
		}
		elem.Attrs[key.text] = value

		if p.tok.kind == tokenComma {
			if err := p.next(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	switch p.tok.kind {
	case tokenString:
		v := String(p.tok.text)
		return v, p.next()
	case tokenNumber:
		n, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return Value{}, p.errorf("malformed number %q", p.tok.text)
		}
		v := Number(n)
		return v, p.next()
	case tokenIdent:
		switch p.tok.text {
		case "true":
			return Boolean(true), p.next()
		case "false":
			return Boolean(false), p.next()
		default:
			v := Identifier(p.tok.text)
			return v, p.next()
		}
	case tokenLBracket:
		if err := p.next(); err != nil {
			return Value{}, err
		}
		var list []Value
		for p.tok.kind != tokenRBracket {
			item, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			list = append(list, item)
			if p.tok.kind == tokenComma {
				if err := p.next(); err != nil {
					return Value{}, err
				}
			}
		}
		if err := p.next(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ArrayValue, List: list}, nil
	default:
		return Value{}, p.errorf("expected value, got %s", p.tok)
	}
}

// parseMatchDef parses Match<Target> Name { Text("pattern", threshold=0.9) ... }.
func (p *parser) parseMatchDef() (*MatchDef, error) {
	if err := p.next(); err != nil { // consume "Match"
		return nil, err
	}
	if _, err := p.expect(tokenLAngle, `"<"`); err != nil {
		return nil, err
	}
	target, err := p.expect(tokenIdent, "match target type")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRAngle, `">"`); err != nil {
		return nil, err
	}
	name, err := p.expect(tokenIdent, "match definition name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLBrace, `"{"`); err != nil {
		return nil, err
	}

	def := &MatchDef{Name: name.text, Target: target.text}

	for p.tok.kind != tokenRBrace {
		if p.tok.kind == tokenEOF {
			return nil, p.errorf("unclosed match definition %s", def.Name)
		}
		clause, err := p.parseMatchClause()
		if err != nil {
			return nil, err
		}
		def.Clauses = append(def.Clauses, clause)
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	if len(def.Clauses) == 0 {
		return nil, p.errorf("match definition %s has no clauses", def.Name)
	}

	return def, nil
}

// parseMatchClause parses Text("pattern") or Text("pattern", threshold=0.9).
func (p *parser) parseMatchClause() (MatchClause, error) {
	fn, err := p.expect(tokenIdent, "match clause")
	if err != nil {
		return MatchClause{}, err
	}
	if fn.text != "Text" {
		return MatchClause{}, p.errorf("unsupported match clause %q", fn.text)
	}
	if _, err := p.expect(tokenLParen, `"("`); err != nil {
		return MatchClause{}, err
	}

	pattern, err := p.expect(tokenString, "pattern string")
	if err != nil {
		return MatchClause{}, err
	}

	clause := MatchClause{Pattern: pattern.text}

	for p.tok.kind == tokenComma {
		if err := p.next(); err != nil {
			return MatchClause{}, err
		}
		key, err := p.expect(tokenIdent, "clause option")
		if err != nil {
			return MatchClause{}, err
		}
		if _, err := p.expect(tokenEquals, `"="`); err != nil {
			return MatchClause{}, err
		}
		value, err := p.parseValue()
		if err != nil {
			return MatchClause{}, err
		}
		switch key.text {
		case "threshold":
			if f, ok := value.AsFloat(); ok {
				clause.Threshold = f
			}
		default:
			return MatchClause{}, p.errorf("unsupported clause option %q", key.text)
		}
	}

	if _, err := p.expect(tokenRParen, `")"`); err != nil {
		return MatchClause{}, err
	}

	return clause, nil
}

func linkSiblings(parent *Element, children []*Element) {
	for i, child := range children {
		child.Parent = parent
		if i > 0 {
			child.Prev = children[i-1]
			children[i-1].Next = child
		}
	}
}
