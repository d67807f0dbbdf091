package parser

import "github.com/deepnoodle-ai/settix/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ARROW    // =>
	TERNARY  // ? :
	NULLISH  // ??
	OR       // ||
	AND      // &&
	BITOR    // |
	BITXOR   // ^
	BITAND   // &
	EQUALS   // == != === !==
	COMPARE  // < > <= >= as satisfies
	SHIFT    // << >> >>>
	SUM      // + -
	PRODUCT  // * / %
	PREFIX   // -x !x typeof x
	POSTFIX  // x! f(x) a[i] a.b
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ARROW:         ARROW,
	token.QUESTION:      TERNARY,
	token.NULLISH:       NULLISH,
	token.OR:            OR,
	token.AND:           AND,
	token.PIPE:          BITOR,
	token.CARET:         BITXOR,
	token.AMPERSAND:     BITAND,
	token.EQ:            EQUALS,
	token.EQ_STRICT:     EQUALS,
	token.NOT_EQ:        EQUALS,
	token.NOT_EQ_STRICT: EQUALS,
	token.LT:            COMPARE,
	token.LT_EQUALS:     COMPARE,
	token.GT:            COMPARE,
	token.GT_EQUALS:     COMPARE,
	token.AS:            COMPARE,
	token.SATISFIES:     COMPARE,
	token.LT_LT:         SHIFT,
	token.GT_GT:         SHIFT,
	token.GT_GT_GT:      SHIFT,
	token.PLUS:          SUM,
	token.MINUS:         SUM,
	token.ASTERISK:      PRODUCT,
	token.SLASH:         PRODUCT,
	token.MOD:           PRODUCT,
	token.BANG:          POSTFIX,
	token.LPAREN:        POSTFIX,
	token.LBRACKET:      POSTFIX,
	token.PERIOD:        POSTFIX,
	token.QUESTION_DOT:  POSTFIX,
}
