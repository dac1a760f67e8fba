// Package eval compiles and evaluates the small host-neutral expression
// language the query rewriter hands it: arithmetic, comparison, logical,
// string, regex, conditional, member access, function call, aggregate, and
// FOLD/UNFOLD forms (spec §4.2, §4.3).
package eval

type tokenType int

const (
	tEOF tokenType = iota
	tNumber
	tString
	tIdent
	tPlus
	tMinus
	tStar
	tSlash
	tPercent
	tEq
	tNe
	tStrictEq
	tStrictNe
	tLt
	tLe
	tGt
	tGe
	tAnd
	tOr
	tNot
	tLParen
	tRParen
	tLBracket
	tRBracket
	tComma
	tDot
	tIf
	tElse
	tAssign
	tLambda
	tColon
)

type token struct {
	typ tokenType
	lit string
}

var keywords = map[string]tokenType{
	"and":  tAnd,
	"or":   tOr,
	"not":  tNot,
	"if":     tIf,
	"else":   tElse,
	"lambda": tLambda,
}
