package equation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind is the kind of a lexical token
type TokenKind int

// token kinds
const (
	TokenNumber TokenKind = iota
	TokenAdd
	TokenSubtract
	TokenMultiply
	TokenDivide
	TokenSquareRoot
	TokenLeftParen
	TokenRightParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenAdd:
		return "+"
	case TokenSubtract:
		return "-"
	case TokenMultiply:
		return "*"
	case TokenDivide:
		return "/"
	case TokenSquareRoot:
		return "sqrt"
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	}

	return "unknown"
}

// Token is a single lexical token of an equation
type Token struct {
	Kind  TokenKind
	Value int
	// Pos is the byte offset in the source expression
	Pos int
}

func (t Token) String() string {
	if t.Kind == TokenNumber {
		return strconv.Itoa(t.Value)
	}

	return t.Kind.String()
}

// maxLiteral bounds integer literals so evaluation can't overflow into nonsense
const maxLiteral = 1_000_000

// Tokens splits an expression into tokens
// Accepted symbols are digits, + - * / (and × ÷ − x), parentheses, and sqrt or √
func Tokens(expression string) ([]Token, error) {
	tokens := make([]Token, 0, len(expression))
	runes := []rune(expression)
	pos := 0

	for i := 0; i < len(runes); {
		r := runes[i]
		width := len(string(r))

		switch {
		case unicode.IsSpace(r):
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			start := i
			for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
				i++
			}

			literal := string(runes[start:i])
			value, err := strconv.Atoi(literal)
			if err != nil || value > maxLiteral {
				return nil, malformed("number %s at position %d is out of range", literal, pos)
			}

			tokens = append(tokens, Token{Kind: TokenNumber, Value: value, Pos: pos})
			pos += len(literal)
			continue
		case r == '+':
			tokens = append(tokens, Token{Kind: TokenAdd, Pos: pos})
		case r == '-' || r == '−':
			tokens = append(tokens, Token{Kind: TokenSubtract, Pos: pos})
		case r == '*' || r == '×' || r == 'x' || r == 'X':
			tokens = append(tokens, Token{Kind: TokenMultiply, Pos: pos})
		case r == '/' || r == '÷':
			tokens = append(tokens, Token{Kind: TokenDivide, Pos: pos})
		case r == '√':
			tokens = append(tokens, Token{Kind: TokenSquareRoot, Pos: pos})
		case r == '(':
			tokens = append(tokens, Token{Kind: TokenLeftParen, Pos: pos})
		case r == ')':
			tokens = append(tokens, Token{Kind: TokenRightParen, Pos: pos})
		case r == 's' || r == 'S':
			if i+4 > len(runes) || !strings.EqualFold(string(runes[i:i+4]), "sqrt") {
				return nil, malformed("unexpected character %q at position %d", r, pos)
			}

			tokens = append(tokens, Token{Kind: TokenSquareRoot, Pos: pos})
			i += 4
			pos += 4
			continue
		default:
			return nil, malformed("unexpected character %q at position %d", r, pos)
		}

		i++
		pos += width
	}

	return tokens, nil
}

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedEquation, fmt.Sprintf(format, a...))
}
