package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelect(t *testing.T) {
	plan, err := Parse("select a1, a2 where a1 > 10")
	require.NoError(t, err)
	assert.Equal(t, ActionSelect, plan.Action)
	require.Len(t, plan.SelectItems, 2)
	assert.Equal(t, "a1", plan.SelectItems[0].Expr)
	assert.Equal(t, "a2", plan.SelectItems[1].Expr)
	assert.Equal(t, "a1 > 10", plan.Where)
}

func TestParseSelectStarWithExcept(t *testing.T) {
	plan, err := Parse("select * except a2, a4")
	require.NoError(t, err)
	require.Len(t, plan.SelectItems, 1)
	assert.True(t, plan.SelectItems[0].Star)
	assert.Equal(t, map[int]bool{1: true, 3: true}, plan.ExceptSet)
}

func TestParseTopAndDistinctCount(t *testing.T) {
	plan, err := Parse("select top 5 distinct count a1")
	require.NoError(t, err)
	assert.Equal(t, 5, plan.Top)
	assert.True(t, plan.Distinct)
	assert.True(t, plan.DistinctCount)
}

func TestParseLimitSetsTop(t *testing.T) {
	plan, err := Parse("select a1 limit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Top)
}

func TestParseOrderByDesc(t *testing.T) {
	plan, err := Parse("select a1 order by a1 desc")
	require.NoError(t, err)
	require.NotNil(t, plan.OrderBy)
	assert.Equal(t, []string{"a1"}, plan.OrderBy.Keys)
	assert.True(t, plan.OrderBy.Reverse)
}

func TestParseOrderByMultiKey(t *testing.T) {
	plan, err := Parse("select a1 order by a2, int(a1)")
	require.NoError(t, err)
	require.NotNil(t, plan.OrderBy)
	assert.Equal(t, []string{"a2", "int(a1)"}, plan.OrderBy.Keys)
	assert.False(t, plan.OrderBy.Reverse)
}

func TestParseInnerJoin(t *testing.T) {
	plan, err := Parse(`select a1, b2 join table.tsv on a1 == b1`)
	require.NoError(t, err)
	require.NotNil(t, plan.Join)
	assert.Equal(t, JoinInner, plan.Join.Mode)
	assert.Equal(t, "table.tsv", plan.Join.Table)
	assert.Equal(t, "a1", plan.Join.LeftKeyExpr)
	assert.Equal(t, "b1", plan.Join.RightKeyExpr)
}

func TestParseStrictLeftJoinKeyOrderCanBeReversed(t *testing.T) {
	plan, err := Parse(`select a1 strict left join t.tsv on b1 == a1`)
	require.NoError(t, err)
	require.NotNil(t, plan.Join)
	assert.Equal(t, JoinStrictLeft, plan.Join.Mode)
	assert.Equal(t, "a1", plan.Join.LeftKeyExpr)
	assert.Equal(t, "b1", plan.Join.RightKeyExpr)
}

func TestParseGroupBy(t *testing.T) {
	plan, err := Parse("select a1, count(a2) group by a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, plan.GroupBy)
}

func TestParseUpdate(t *testing.T) {
	plan, err := Parse("update a1 = a1 + 1, a2 = 'x' where a3 == 1")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, plan.Action)
	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, 1, plan.Assignments[0].Index)
	assert.Equal(t, "a1 + 1", plan.Assignments[0].Expr)
	assert.Equal(t, 2, plan.Assignments[1].Index)
	assert.Equal(t, "'x'", plan.Assignments[1].Expr)
}

func TestParseRejectsBareEqualsInWhere(t *testing.T) {
	_, err := Parse("select a1 where a1 = 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Assignments "=" are not allowed in "WHERE"`)
}

func TestParseAllowsComparisonOperatorsInWhere(t *testing.T) {
	_, err := Parse("select a1 where a1 == 5 and a2 != 3 and a3 >= 1 and a4 <= 2")
	require.NoError(t, err)
}

func TestParseMissingActionIsAnError(t *testing.T) {
	_, err := Parse("a1, a2")
	require.Error(t, err)
}

func TestLiteralsSurviveClauseRewriting(t *testing.T) {
	plan, err := Parse(`select a1 where a1 == "group by, order by"`)
	require.NoError(t, err)
	assert.Equal(t, `a1 == "group by, order by"`, plan.Where)
}

func TestParseRequiresJoinOnExactlyOneKeyPerSide(t *testing.T) {
	_, err := Parse(`select a1 join t.tsv on a1 == a2`)
	require.Error(t, err)
}
