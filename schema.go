// Copyright (c) 2025 WNI

package ru

import "fmt"

// ParseSchema parses a schema string per the grammar:
//
//	field_list := NAME ':' type (',' NAME ':' type)*
//	type       := '{' (NUMBER | NAME) '}' type        -- sized array
//	            | '+' type                             -- unbounded array
//	            | '[' field_list ']'                   -- nested struct
//	            | builtin
//	builtin    := SCALAR_NAME
//	            | STR_NAME                              -- NUL-terminated family
//	            | '<' NUMBER '>' NSTR_NAME              -- fixed-size family
//
// It returns the root struct node (named "/") and the set of field names
// used anywhere as a symbolic array size, for seeding a resolver. A
// SchemaSyntax error carries the consumed input prefix as its Node.
func ParseSchema(schema string) (*Node, map[string]bool, error) {
	p := &parser{lex: newLexer(schema), sizeNames: make(map[string]bool)}
	fail := func(err error) (*Node, map[string]bool, error) {
		if e, ok := err.(*Error); ok {
			e.Node = schema[:p.lex.pos]
		}
		return nil, nil, err
	}
	members, err := p.parseFieldList()
	if err != nil {
		return fail(err)
	}
	if t := p.lex.next(); t.Kind != TokEnd {
		return fail(newErr(SchemaSyntax, "", fmt.Sprintf("unexpected trailing token %q", t.Text)))
	}
	return newStructNode("/", members), p.sizeNames, nil
}

type parser struct {
	lex       *lexer
	sizeNames map[string]bool
}

func (p *parser) parseFieldList() ([]*Node, error) {
	var members []*Node
	for {
		name, err := p.expectSymbol()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokColon); err != nil {
			return nil, err
		}
		n, err := p.parseType(name)
		if err != nil {
			return nil, err
		}
		members = append(members, n)

		t := p.lex.next()
		if t.Kind == TokComma {
			continue
		}
		p.lex.unget(t)
		break
	}
	return members, nil
}

func (p *parser) parseType(name string) (*Node, error) {
	t := p.lex.next()
	switch t.Kind {
	case TokLBrace:
		sizeTok := p.lex.next()
		var literal int
		var sizeName string
		switch sizeTok.Kind {
		case TokNumber:
			literal = sizeTok.Num
		case TokSymbol:
			sizeName = sizeTok.Text
			p.sizeNames[sizeName] = true
		default:
			return nil, newErr(SchemaSyntax, name, "expected number or name inside { }")
		}
		if err := p.expect(TokRBrace); err != nil {
			return nil, err
		}
		// The element template carries an empty name: it is not itself a
		// struct member, and a struct directly inside an array has no name.
		elem, err := p.parseType("")
		if err != nil {
			return nil, err
		}
		return newArrayNode(name, elem, literal, sizeName, false), nil

	case TokPlus:
		elem, err := p.parseType("")
		if err != nil {
			return nil, err
		}
		return newArrayNode(name, elem, 0, "", true), nil

	case TokLBracket:
		fields, err := p.parseFieldList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return newStructNode(name, fields), nil

	case TokLAngle:
		sizeTok := p.lex.next()
		if sizeTok.Kind != TokNumber {
			return nil, newErr(SchemaSyntax, name, "expected number inside < >")
		}
		if err := p.expect(TokRAngle); err != nil {
			return nil, err
		}
		typeName, err := p.expectSymbol()
		if err != nil {
			return nil, err
		}
		return p.builtinNode(name, typeName, true, sizeTok.Num)

	case TokSymbol:
		return p.builtinNode(name, t.Text, false, 0)

	default:
		return nil, newErr(SchemaSyntax, name, fmt.Sprintf("unexpected token %q starting type", t.Text))
	}
}

var scalarTypeNames = map[string]ScalarKind{
	"INT8": KindInt8, "UINT8": KindUint8,
	"INT16": KindInt16, "UINT16": KindUint16,
	"INT32": KindInt32, "UINT32": KindUint32,
	"FLOAT32": KindFloat32, "FLOAT64": KindFloat64,
}

var strFamilyNames = map[string]string{
	StrTypeSTR: StrTypeSTR, StrTypeESTR: StrTypeESTR, StrTypeJSTR: StrTypeJSTR,
	StrTypeSSTR: StrTypeSSTR, StrTypeUSTR: StrTypeUSTR,
}

// builtinNode resolves a type name to a scalar or string node. fixed
// string families are spelled with an "N" prefix (NSTR, NESTR, ...) and
// carry a byte size parsed from the '<' NUMBER '>' prefix.
func (p *parser) builtinNode(name, typeName string, fixed bool, size int) (*Node, error) {
	if sk, ok := scalarTypeNames[typeName]; ok {
		if fixed {
			return nil, newErr(SchemaSyntax, name, "scalar type cannot take a < > size")
		}
		return newScalarNode(name, sk), nil
	}
	family := typeName
	if fixed {
		if len(typeName) < 2 || typeName[0] != 'N' {
			return nil, newErr(SchemaSyntax, name, fmt.Sprintf("unknown fixed-size string type %q", typeName))
		}
		family = typeName[1:]
	}
	if _, ok := strFamilyNames[family]; !ok {
		return nil, newErr(SchemaSyntax, name, fmt.Sprintf("unknown type %q", typeName))
	}
	return newStringNode(name, family, fixed, size), nil
}

func (p *parser) expect(k TokKind) error {
	t := p.lex.next()
	if t.Kind != k {
		return newErr(SchemaSyntax, "", fmt.Sprintf("unexpected token %q", t.Text))
	}
	return nil
}

func (p *parser) expectSymbol() (string, error) {
	t := p.lex.next()
	if t.Kind != TokSymbol {
		return "", newErr(SchemaSyntax, "", fmt.Sprintf("expected name, got %q", t.Text))
	}
	return t.Text, nil
}
