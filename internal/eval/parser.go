package eval

import (
	"strconv"

	"nickandperla.net/sumflow/internal/expr"
	"nickandperla.net/sumflow/internal/scanner"
	"nickandperla.net/sumflow/internal/token"
)

// Binding strength, lowest first.
const (
	precLowest = iota
	precConvert
	precCompare
	precAdd
	precMul
	precImplicit
	precUnary
	precPower
	precPostfix
)

type parser struct {
	items []scanner.Item
	pos   int
}

// parse turns source text into an expression tree.
func parse(src string) (expr.Expr, error) {
	items, err := scanner.NewFromString(src).All()
	if err != nil {
		return nil, syntaxErr(0, "%v", err)
	}
	p := &parser{items: items}
	if p.peek().Token == token.EOF {
		return nil, syntaxErr(0, "empty expression")
	}
	e, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Token != token.EOF {
		return nil, syntaxErr(tok.Pos, "unexpected %s", tok)
	}
	return e, nil
}

func (p *parser) peek() scanner.Item { return p.peekAt(0) }

func (p *parser) peekAt(off int) scanner.Item {
	i := p.pos + off
	if i >= len(p.items) {
		return p.items[len(p.items)-1] // EOF
	}
	return p.items[i]
}

func (p *parser) next() scanner.Item {
	it := p.peek()
	if p.pos < len(p.items)-1 {
		p.pos++
	}
	return it
}

// last returns the most recently consumed item.
func (p *parser) last() scanner.Item {
	if p.pos == 0 {
		return scanner.Item{Token: token.EOF}
	}
	return p.items[p.pos-1]
}

func (p *parser) parseExpression(minPrec int) (expr.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		switch {
		case tok.Token == token.PERCENT && !p.operandAt(1):
			if precPostfix <= minPrec {
				return left, nil
			}
			p.next()
			left = expr.Percent{Operand: left}
			continue

		case p.conversionAhead():
			if precConvert <= minPrec {
				return left, nil
			}
			kw := p.next()
			target := p.next()
			if target.Token != token.IDENT {
				return nil, syntaxErr(target.Pos, "expected a unit after %q, got %s", kw.Value, target)
			}
			left = expr.Convert{Value: left, Target: target.Value}
			continue

		case p.implicitAhead():
			if precImplicit <= minPrec {
				return left, nil
			}
			right, err := p.parseExpression(precImplicit)
			if err != nil {
				return nil, err
			}
			left = expr.Binary{Op: token.STAR, Left: left, Right: right, Implicit: true}
			continue
		}

		prec, rightAssoc := infixPrecedence(tok.Token)
		if prec == precLowest || prec <= minPrec {
			return left, nil
		}
		p.next()
		nextMin := prec
		if rightAssoc {
			nextMin = prec - 1
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		left = expr.Binary{Op: tok.Token, Left: left, Right: right}
	}
}

func (p *parser) parsePrefix() (expr.Expr, error) {
	tok := p.next()
	switch tok.Token {
	case token.NUMBER:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, syntaxErr(tok.Pos, "invalid number %q", tok.Value)
		}
		return expr.Number{Value: v}, nil

	case token.IDENT:
		if tok.Value == token.KeywordTo {
			return nil, syntaxErr(tok.Pos, "unexpected %q", tok.Value)
		}
		if p.peek().Token == token.LPAREN {
			return p.parseCall(tok)
		}
		return expr.Ident{Name: tok.Value}, nil

	case token.MINUS, token.PLUS:
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: tok.Token, Operand: operand}, nil

	case token.LPAREN:
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Token != token.RPAREN {
			return nil, syntaxErr(closing.Pos, "expected ), got %s", closing)
		}
		return e, nil

	case token.EOF:
		return nil, syntaxErr(tok.Pos, "unexpected end of expression")

	case token.ILLEGAL:
		return nil, syntaxErr(tok.Pos, "unexpected character %q", tok.Value)
	}
	return nil, syntaxErr(tok.Pos, "unexpected %s", tok)
}

func (p *parser) parseCall(name scanner.Item) (expr.Expr, error) {
	p.next() // (
	call := expr.Call{Name: name.Value}
	if p.peek().Token == token.RPAREN {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		switch tok := p.next(); tok.Token {
		case token.COMMA:
			continue
		case token.RPAREN:
			return call, nil
		default:
			return nil, syntaxErr(tok.Pos, "expected , or ) in call to %s, got %s", name.Value, tok)
		}
	}
}

// operandAt reports whether the item at off can start an operand, which
// makes a preceding % the modulo operator rather than a percent sign.
func (p *parser) operandAt(off int) bool {
	it := p.peekAt(off)
	switch it.Token {
	case token.NUMBER, token.LPAREN:
		return true
	case token.IDENT:
		return !isKeyword(it.Value)
	}
	return false
}

// conversionAhead reports whether the next item is a conversion keyword.
// "in" right after a number is the inch unit unless a target unit follows
// it; "5 in to cm" and "12 in in ft" convert inches.
func (p *parser) conversionAhead() bool {
	tok := p.peek()
	if tok.Token != token.IDENT {
		return false
	}
	switch tok.Value {
	case token.KeywordTo:
		return true
	case token.KeywordIn:
		if p.last().Token == token.NUMBER {
			next := p.peekAt(1)
			return next.Token == token.IDENT && !isKeyword(next.Value)
		}
		return true
	}
	return false
}

func isKeyword(s string) bool {
	return s == token.KeywordTo || s == token.KeywordIn
}

// implicitAhead reports whether a number or closing parenthesis is directly
// followed by an operand, as in "5 km" or "2 (3 + 4)".
func (p *parser) implicitAhead() bool {
	switch p.last().Token {
	case token.NUMBER, token.RPAREN:
	default:
		return false
	}
	tok := p.peek()
	switch tok.Token {
	case token.LPAREN:
		return true
	case token.IDENT:
		return !p.conversionAhead()
	}
	return false
}

func infixPrecedence(t token.Token) (prec int, rightAssoc bool) {
	switch {
	case t == token.PLUS, t == token.MINUS:
		return precAdd, false
	case t == token.STAR, t == token.SLASH, t == token.PERCENT:
		return precMul, false
	case t == token.CARET:
		return precPower, true
	case t.IsComparison():
		return precCompare, false
	}
	return precLowest, false
}
