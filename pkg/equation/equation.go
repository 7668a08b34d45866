// Package equation parses and evaluates the restricted arithmetic language players build from their cards.
package equation

import (
	"errors"
	"math"
)

// ErrMalformedEquation is returned for any expression that can't be evaluated to a finite number
var ErrMalformedEquation = errors.New("malformed equation")

// Evaluate parses and evaluates the expression
// Multiplication and division bind tighter than addition and subtraction, and a square root
// binds to the single number or parenthesized expression that follows it.
func Evaluate(expression string) (float64, error) {
	tokens, err := Tokens(expression)
	if err != nil {
		return 0, err
	}

	return EvaluateTokens(tokens)
}

// EvaluateTokens evaluates an already tokenized expression
func EvaluateTokens(tokens []Token) (float64, error) {
	if len(tokens) == 0 {
		return 0, malformed("empty equation")
	}

	p := &parser{tokens: tokens}
	result, err := p.expr()
	if err != nil {
		return 0, err
	}

	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return 0, malformed("unexpected %s at position %d", tok, tok.Pos)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, malformed("result is not a finite number")
	}

	return result, nil
}

// parser is a recursive descent parser over the grammar:
//
//	expr    := term (('+'|'-') term)*
//	term    := factor (('*'|'/') factor)*
//	factor  := SQRT operand | operand
//	operand := NUMBER | '(' expr ')'
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}

	for {
		tok, ok := p.peek()
		if !ok || (tok.Kind != TokenAdd && tok.Kind != TokenSubtract) {
			return left, nil
		}
		p.pos++

		right, err := p.term()
		if err != nil {
			return 0, err
		}

		if tok.Kind == TokenAdd {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}

	for {
		tok, ok := p.peek()
		if !ok || (tok.Kind != TokenMultiply && tok.Kind != TokenDivide) {
			return left, nil
		}
		p.pos++

		right, err := p.factor()
		if err != nil {
			return 0, err
		}

		if tok.Kind == TokenMultiply {
			left *= right
			continue
		}

		if right == 0 {
			return 0, malformed("division by zero at position %d", tok.Pos)
		}

		left /= right
	}
}

func (p *parser) factor() (float64, error) {
	tok, ok := p.peek()
	if ok && tok.Kind == TokenSquareRoot {
		p.pos++
		operand, err := p.operand()
		if err != nil {
			return 0, err
		}

		if operand < 0 {
			return 0, malformed("square root of a negative number at position %d", tok.Pos)
		}

		return math.Sqrt(operand), nil
	}

	return p.operand()
}

func (p *parser) operand() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, malformed("expected a number at the end of the equation")
	}

	switch tok.Kind {
	case TokenNumber:
		p.pos++
		return float64(tok.Value), nil
	case TokenLeftParen:
		p.pos++
		value, err := p.expr()
		if err != nil {
			return 0, err
		}

		closing, ok := p.peek()
		if !ok || closing.Kind != TokenRightParen {
			return 0, malformed("missing closing parenthesis for position %d", tok.Pos)
		}
		p.pos++

		return value, nil
	}

	return 0, malformed("expected a number but found %s at position %d", tok, tok.Pos)
}
