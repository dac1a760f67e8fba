package join

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbql-go/rbql/internal/record"
)

func keyOnFirstField(fields []string) (string, error) {
	return fields[0], nil
}

func TestLoadIndexesByKeyAndPadsShortRows(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1,2\ny,3\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Width())
	rows := tbl.Lookup("y")
	require.Len(t, rows, 1)
	assert.Equal(t, Record{"y", "3", ""}, rows[0])
}

func TestLoadAllowsMultipleRowsPerKey(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1\nx,2\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)
	assert.Len(t, tbl.Lookup("x"), 2)
}

func TestMatchInnerDropsUnmatchedKey(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)

	_, matched, err := Match(Inner, "missing", tbl)
	require.NoError(t, err)
	assert.False(t, matched)

	rows, matched, err := Match(Inner, "x", tbl)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Len(t, rows, 1)
}

func TestMatchLeftReportsUnmatchedWithoutError(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)

	rows, matched, err := Match(Left, "missing", tbl)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Nil(t, rows)
}

func TestMatchStrictLeftRejectsZeroOrMultipleMatches(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1\nx,2\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)

	_, _, err = Match(StrictLeft, "x", tbl)
	require.Error(t, err)
	violation, ok := err.(*StrictViolation)
	require.True(t, ok)
	assert.Equal(t, 2, violation.Matches)

	_, _, err = Match(StrictLeft, "missing", tbl)
	require.Error(t, err)
}

func TestMatchStrictLeftAcceptsExactlyOneMatch(t *testing.T) {
	tbl, err := Load(strings.NewReader("x,1\ny,2\n"), record.Simple, ",", keyOnFirstField, nil)
	require.NoError(t, err)

	rows, matched, err := Match(StrictLeft, "x", tbl)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Len(t, rows, 1)
}
