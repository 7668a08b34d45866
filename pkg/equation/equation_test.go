package equation

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func assertEvaluate(t *testing.T, expression string, expected float64) {
	t.Helper()
	result, err := Evaluate(expression)
	if assert.NoError(t, err, expression) {
		assert.InDelta(t, expected, result, 1e-9, expression)
	}
}

func assertMalformed(t *testing.T, expression string, expectedErr string) {
	t.Helper()
	result, err := Evaluate(expression)
	assert.True(t, errors.Is(err, ErrMalformedEquation), "%q: expected ErrMalformedEquation, got %v", expression, err)
	assert.EqualError(t, err, expectedErr, expression)
	assert.Equal(t, float64(0), result, expression)
}

func TestEvaluate(t *testing.T) {
	assertEvaluate(t, "2+3*4", 14)
	assertEvaluate(t, "sqrt4+5", 7)
	assertEvaluate(t, "10", 10)
	assertEvaluate(t, "8/4/2", 1)
	assertEvaluate(t, "10-4-3", 3)
	assertEvaluate(t, "1+2*3-8/4", 5)
	assertEvaluate(t, "sqrt9*sqrt4", 6)
	assertEvaluate(t, "sqrt(7+9)-3", 1)
	assertEvaluate(t, "(1+2)*3", 9)
	assertEvaluate(t, " 3 × 7 − 1 ", 20)
	assertEvaluate(t, "6÷4", 1.5)
	assertEvaluate(t, "√16+4", 8)
	assertEvaluate(t, "SQRT2*SQRT2", 2)
	assertEvaluate(t, "2x10", 20)
	assertEvaluate(t, "0-5", -5)
	assertEvaluate(t, "1/3*3", 1)
}

func TestEvaluate_malformed(t *testing.T) {
	assertMalformed(t, "5/0", "malformed equation: division by zero at position 1")
	assertMalformed(t, "", "malformed equation: empty equation")
	assertMalformed(t, "   ", "malformed equation: empty equation")
	assertMalformed(t, "sqrt", "malformed equation: expected a number at the end of the equation")
	assertMalformed(t, "sqrt+4", "malformed equation: expected a number but found + at position 4")
	assertMalformed(t, "4+", "malformed equation: expected a number at the end of the equation")
	assertMalformed(t, "*4", "malformed equation: expected a number but found * at position 0")
	assertMalformed(t, "4 4", "malformed equation: unexpected 4 at position 2")
	assertMalformed(t, "(4+1", "malformed equation: missing closing parenthesis for position 0")
	assertMalformed(t, "4+1)", "malformed equation: unexpected ) at position 3")
	assertMalformed(t, "sqrt(0-4)", "malformed equation: square root of a negative number at position 0")
	assertMalformed(t, "2^3", "malformed equation: unexpected character '^' at position 1")
	assertMalformed(t, "seven", "malformed equation: unexpected character 's' at position 0")
	assertMalformed(t, "3/(2-2)", "malformed equation: division by zero at position 1")
	assertMalformed(t, "9999999", "malformed equation: number 9999999 at position 0 is out of range")
}

func TestEvaluate_nonFinite(t *testing.T) {
	// 1000000^60 overflows float64
	expr := "1000000"
	for i := 0; i < 60; i++ {
		expr += "*1000000"
	}

	_, err := Evaluate(expr)
	assert.EqualError(t, err, "malformed equation: result is not a finite number")
}

func TestTokens(t *testing.T) {
	a := assert.New(t)
	tokens, err := Tokens("sqrt10 + 2*(3)")
	a.NoError(err)

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}

	a.Equal([]TokenKind{
		TokenSquareRoot, TokenNumber, TokenAdd, TokenNumber, TokenMultiply, TokenLeftParen, TokenNumber, TokenRightParen,
	}, kinds)
	a.Equal(10, tokens[1].Value)
	a.Equal(7, tokens[2].Pos)

	result, err := EvaluateTokens(tokens)
	a.NoError(err)
	a.InDelta(9.16227766, result, 1e-6)
}
