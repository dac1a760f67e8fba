package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, expr string, ctx *Context) Value {
	t.Helper()
	node, err := Compile(expr)
	require.NoError(t, err)
	v, err := Eval(node, ctx)
	require.NoError(t, err)
	return v
}

func TestColumnReferencesReadAAndB(t *testing.T) {
	ctx := &Context{A: []string{"x", "y"}, B: []string{"p", "q"}}
	assert.Equal(t, "x", eval(t, "a1", ctx).String())
	assert.Equal(t, "q", eval(t, "b2", ctx).String())
}

func TestMissingFieldReturnsEmptyStringAndInvokesHook(t *testing.T) {
	hit := false
	ctx := &Context{A: []string{"x"}, MissingField: func() { hit = true }}
	v := eval(t, "a3", ctx)
	assert.Equal(t, "", v.String())
	assert.True(t, hit)
}

func TestBIsNullMakesBColumnsNilNotEmptyString(t *testing.T) {
	ctx := &Context{A: []string{"x"}, BIsNull: true}
	v := eval(t, "b1", ctx)
	assert.True(t, v.IsNil())
}

func TestArithmeticPromotesToFloatOnMixedOperands(t *testing.T) {
	ctx := &Context{}
	v := eval(t, "1 + 2", ctx)
	assert.Equal(t, Int(3), v)
	v = eval(t, "1 + 2.5", ctx)
	assert.Equal(t, KindFloat, v.Kind)
	assert.Equal(t, 3.5, v.F)
}

func TestStringConcatenationWithPlus(t *testing.T) {
	ctx := &Context{}
	v := eval(t, `"a" + "b"`, ctx)
	assert.Equal(t, "ab", v.String())
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	node, err := Compile("1 / 0")
	require.NoError(t, err)
	_, err = Eval(node, &Context{})
	require.Error(t, err)
}

func TestConditionalExpression(t *testing.T) {
	ctx := &Context{A: []string{"5"}}
	v := eval(t, `"big" if a1 == "5" else "small"`, ctx)
	assert.Equal(t, "big", v.String())
}

func TestGlobalsAreVisibleToExpressions(t *testing.T) {
	ctx := &Context{Globals: map[string]Value{"k": Int(42)}}
	v := eval(t, "k", ctx)
	assert.Equal(t, Int(42), v)
}

func TestNRAndNFReflectContext(t *testing.T) {
	ctx := &Context{A: []string{"a", "b", "c"}, NR: 7}
	assert.Equal(t, Int(7), eval(t, "NR", ctx))
	assert.Equal(t, Int(3), eval(t, "NF", ctx))
}

func TestCompareIsNumericAwareAndFallsBackToStrings(t *testing.T) {
	assert.Equal(t, -1, Compare(Int(1), Int(2)))
	assert.Equal(t, 0, Compare(Float(2), Int(2)))
	assert.True(t, Compare(Str("a"), Str("b")) < 0)
}

func TestEqualAllowsCrossKindNumericComparison(t *testing.T) {
	assert.True(t, Equal(Int(3), Float(3)))
	assert.False(t, Equal(Str("3"), Int(4)))
}

func TestBuiltinStringMembers(t *testing.T) {
	ctx := &Context{A: []string{" Hello "}}
	assert.Equal(t, "hello", eval(t, "a1.strip().lower()", ctx).String())
}

func TestMathBuiltins(t *testing.T) {
	ctx := &Context{}
	assert.Equal(t, Int(2), eval(t, "Math.floor(2.9)", ctx))
	assert.Equal(t, Int(3), eval(t, "Math.ceil(2.1)", ctx))
}

func TestIsAggregateExprDetectsAggregateCalls(t *testing.T) {
	assert.True(t, IsAggregateExpr("SUM(a1)"))
	assert.True(t, IsAggregateExpr("count(*)"))
	assert.False(t, IsAggregateExpr("a1 + 1"))
}

func TestAggregateIsRejectedInsideNestedExpressions(t *testing.T) {
	node, err := Compile("1 + SUM(a1)")
	require.NoError(t, err)
	_, err = Eval(node, &Context{})
	require.Error(t, err)
}

func TestParseIntLooseMatchesLeadingDigitsOnly(t *testing.T) {
	ctx := &Context{}
	assert.Equal(t, Int(42), eval(t, `parseInt("42abc")`, ctx))
	assert.True(t, eval(t, `parseInt("abc")`, ctx).IsNil())
}
