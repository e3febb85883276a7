package calculator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrDivisionByZero = errors.New("division by zero")
var ErrInvalidExpression = errors.New("invalid expression")

// Evaluate computes the value of an infix arithmetic expression over
// decimals. Supported: + - * /, parentheses and unary minus.
func Evaluate(expression string) (decimal.Decimal, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return decimal.Zero, err
	}
	if len(tokens) == 0 {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidExpression)
	}

	p := &parser{tokens: tokens}
	result, err := p.parseExpression(0)
	if err != nil {
		return decimal.Zero, err
	}
	if p.pos != len(p.tokens) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, p.tokens[p.pos].text)
	}
	return result, nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOperator
	tokenLeftParen
	tokenRightParen
)

type token struct {
	kind  tokenKind
	text  string
	value decimal.Decimal
}

func tokenize(expression string) ([]token, error) {
	var tokens []token
	runes := []rune(expression)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRightParen, text: ")"})
			i++
		case strings.ContainsRune("+-*/", r):
			tokens = append(tokens, token{kind: tokenOperator, text: string(r)})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			value, err := decimal.NewFromString(text)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, text)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, value: value})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidExpression, string(r))
		}
	}
	return tokens, nil
}

var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
}

type parser struct {
	tokens []token
	pos    int
}

// parseExpression is a precedence climber: it consumes operators with
// precedence >= minPrecedence, recursing with a higher floor on the right.
func (p *parser) parseExpression(minPrecedence int) (decimal.Decimal, error) {
	left, err := p.parseOperand()
	if err != nil {
		return decimal.Zero, err
	}

	for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenOperator {
		operator := p.tokens[p.pos].text
		if precedence[operator] < minPrecedence {
			break
		}
		p.pos++

		right, err := p.parseExpression(precedence[operator] + 1)
		if err != nil {
			return decimal.Zero, err
		}

		switch operator {
		case "+":
			left = left.Add(right)
		case "-":
			left = left.Sub(right)
		case "*":
			left = left.Mul(right)
		case "/":
			if right.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			left = left.Div(right)
		}
	}
	return left, nil
}

func (p *parser) parseOperand() (decimal.Decimal, error) {
	if p.pos >= len(p.tokens) {
		return decimal.Zero, fmt.Errorf("%w: unexpected end of input", ErrInvalidExpression)
	}

	t := p.tokens[p.pos]
	switch t.kind {
	case tokenNumber:
		p.pos++
		return t.value, nil
	case tokenOperator:
		if t.text == "-" {
			p.pos++
			operand, err := p.parseOperand()
			if err != nil {
				return decimal.Zero, err
			}
			return operand.Neg(), nil
		}
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, t.text)
	case tokenLeftParen:
		p.pos++
		inner, err := p.parseExpression(0)
		if err != nil {
			return decimal.Zero, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokenRightParen {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		p.pos++
		return inner, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, t.text)
	}
}
