package exec

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbql-go/rbql/internal/query"
	"github.com/rbql-go/rbql/internal/record"
)

func mustPlan(t *testing.T, q string) *query.Plan {
	t.Helper()
	p, err := query.Parse(q)
	require.NoError(t, err)
	return p
}

func runQuery(t *testing.T, q, input string, opts Options) string {
	t.Helper()
	plan := mustPlan(t, q)
	if opts.InputDelim == "" {
		opts.InputDelim = ","
	}
	if opts.OutputDelim == "" {
		opts.OutputDelim = opts.InputDelim
	}
	var out strings.Builder
	_, err := Run(context.Background(), plan, strings.NewReader(input), &out, opts)
	require.NoError(t, err)
	return out.String()
}

func TestSelectProjectionAndWhere(t *testing.T) {
	out := runQuery(t, "select a1, a2 where int(a2) > 1", "x,1\ny,2\nz,3\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "y,2\nz,3\n", out)
}

func TestSelectStarWithExcept(t *testing.T) {
	out := runQuery(t, "select * except a2", "x,1,p\ny,2,q\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "x,p\ny,q\n", out)
}

func TestOrderByDescIsStable(t *testing.T) {
	out := runQuery(t, "select a1 order by int(a2) desc", "a,3\nb,1\nc,3\nd,2\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "a\nc\nd\nb\n", out)
}

func TestTopLimitsRows(t *testing.T) {
	out := runQuery(t, "select top 2 a1", "a\nb\nc\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "a\nb\n", out)
}

func TestDistinctDedupesPreservingFirstSeenOrder(t *testing.T) {
	out := runQuery(t, "select distinct a1", "a\nb\na\nc\nb\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestDistinctCountOrdersByCountDescending(t *testing.T) {
	out := runQuery(t, "select distinct count a1", "a\nb\na\nc\na\nb\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "3,a\n2,b\n1,c\n", out)
}

func TestGroupByWithAggregates(t *testing.T) {
	out := runQuery(t, "select a1, SUM(int(a2)) group by a1", "x,1\ny,2\nx,3\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{"x,4.0", "y,2.0"}, lines)
}

func TestUpdateAppliesAssignmentsOnlyWhereMatched(t *testing.T) {
	out := runQuery(t, "update a2 = 'changed' where a1 == 'x'", "x,1\ny,2\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "x,changed\ny,2\n", out)
}

func TestInnerJoinDropsUnmatchedRows(t *testing.T) {
	plan := mustPlan(t, "select a1, b2 join t.csv on a1 == b1")
	var out strings.Builder
	_, err := Run(context.Background(), plan, strings.NewReader("x,1\ny,2\n"), &out, Options{
		InputDelim: ",", InputPolicy: record.Simple,
		OutputDelim: ",", OutputPolicy: record.Simple,
		JoinSource: strings.NewReader("x,hit\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "x,hit\n", out.String())
}

func TestLeftJoinFabricatesNilBRow(t *testing.T) {
	plan := mustPlan(t, "select a1, b2 left join t.csv on a1 == b1")
	var out strings.Builder
	bus, err := Run(context.Background(), plan, strings.NewReader("x,1\ny,2\n"), &out, Options{
		InputDelim: ",", InputPolicy: record.Simple,
		OutputDelim: ",", OutputPolicy: record.Simple,
		JoinSource: strings.NewReader("x,hit\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "x,hit\ny,\n", out.String())
	assert.True(t, bus.Has("null_value_in_output"))
}

func TestStrictLeftJoinErrorsOnAmbiguousKey(t *testing.T) {
	plan := mustPlan(t, "select a1 strict left join t.csv on a1 == b1")
	var out strings.Builder
	_, err := Run(context.Background(), plan, strings.NewReader("x,1\n"), &out, Options{
		InputDelim: ",", InputPolicy: record.Simple,
		OutputDelim: ",", OutputPolicy: record.Simple,
		JoinSource: strings.NewReader("x,p\nx,q\n"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `In "STRICT LEFT JOIN" each key in A must have exactly one match in B`)
}

func TestFoldJoinsGroupedValuesWithPipe(t *testing.T) {
	out := runQuery(t, "select a1, FOLD(a2) group by a1", "x,p\nx,q\ny,r\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{"x,p|q", "y,r"}, lines)
}

func TestCountStarCountsRowsRegardlessOfValue(t *testing.T) {
	out := runQuery(t, "select a1, COUNT(*) group by a1", "x,p\nx,q\ny,\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{"x,2", "y,1"}, lines)
}

func TestUnfoldExpandsListIntoMultipleRows(t *testing.T) {
	out := runQuery(t, `select a1, UNFOLD(a2.split(";"))`, "x,p;q;r\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "x,p\nx,q\nx,r\n", out)
}

func TestFoldLambdaAppliesOnceToTheWholeCollectedList(t *testing.T) {
	input := "car,1,100,1\ncar,2,100,1\ndog,3,100,2\ncar,4,100,2\ncat,5,100,3\ncat,6,100,3\ncar,7,100,100\ncar,8,100,100\n"
	out := runQuery(t, `select FOLD(a2), a1, FOLD(a4, lambda v: len(v)) where a1 == "car" or a1 == "dog" group by a1`, input, Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{"1|2|4|7|8,car,5", "3,dog,1"}, lines)
}

func TestAggregationGroupByMatchesWorkedExample(t *testing.T) {
	input := "car,1,100,1\ncar,2,100,1\ndog,3,100,2\ncar,4,100,2\ncat,5,100,3\ncat,6,100,3\ncar,7,100,100\ncar,8,100,100\n"
	out := runQuery(t, `select a1, a3, MIN(int(a2)*10), MAX(a2), COUNT(*), COUNT(1), COUNT(a1), SUM(a3), AVG(a2), VARIANCE(a2), MEDIAN(a4) group by a1`, input, Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{
		"car,100,10,8,5,5,5,500.0,4.4,7.44,2",
		"cat,100,50,6,2,2,2,200.0,5.5,0.25,3",
		"dog,100,30,3,1,1,1,100.0,3.0,0.0,2",
	}, lines)
}

func TestMultiKeyOrderByAfterJoin(t *testing.T) {
	input := "5,car,lada\n-20,car,Ferrari\n50,plane,tu-134\n20,boat,destroyer\n10,boat,yacht \n200,plane,boeing 737\n80,train,Thomas\n"
	joinSrc := "bicycle,legs\ncar,gas \nplane,wings  \nboat,wind\nrocket,some stuff\n"
	plan := mustPlan(t, `select NR, * inner join t.csv on a2 == b1 where b2 != "haha" and int(a1) > -100 and len(b2) > 1 order by a2, int(a1)`)
	var out strings.Builder
	_, err := Run(context.Background(), plan, strings.NewReader(input), &out, Options{
		InputDelim: ",", InputPolicy: record.Simple,
		OutputDelim: ",", OutputPolicy: record.Simple,
		JoinSource: strings.NewReader(joinSrc),
	})
	require.NoError(t, err)
	assert.Equal(t, "5,10,boat,yacht ,boat,wind\n4,20,boat,destroyer,boat,wind\n2,-20,car,Ferrari,car,gas \n1,5,car,lada,car,gas \n3,50,plane,tu-134,plane,wings  \n6,200,plane,boeing 737,plane,wings  \n", out.String())
}

func TestLimitBehavesLikeTop(t *testing.T) {
	top := runQuery(t, "select top 2 a1", "a\nb\nc\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	limit := runQuery(t, "select a1 limit 2", "a\nb\nc\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, top, limit)
}

func TestSelectNUCountsOnlyOutputRows(t *testing.T) {
	out := runQuery(t, "select NU, a1 where int(a1) > 10", "5\n50\n20\n-20\n40\n", Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "1,50\n2,20\n3,40\n", out)
}

func TestUpdateNUCountsOnlyMatchedRows(t *testing.T) {
	input := "5,haha   asdf,hoho\n50,haha  asdf,dfdf\n20,haha    asdf,\n-20,haha   asdf,hioho\n40,lol,hioho\n"
	out := runQuery(t, `update a2 = a2 + " " + NU, a1 = 100 where int(a1) > 10`, input, Options{
		InputPolicy: record.Simple, OutputPolicy: record.Simple,
	})
	assert.Equal(t, "5,haha   asdf,hoho\n100,haha  asdf 1,dfdf\n100,haha    asdf 2,\n-20,haha   asdf,hioho\n100,lol 3,hioho\n", out)
}
