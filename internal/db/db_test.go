package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_NamesAreUniqueAndIdempotent(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Migrations {
		assert.NotEmpty(t, m.Name)
		assert.False(t, seen[m.Name], "duplicate migration %s", m.Name)
		seen[m.Name] = true
		assert.Contains(t, m.SQL, "IF NOT EXISTS", "migration %s must be re-runnable", m.Name)
	}
}

func TestMarshalJSONB_NilSliceBecomesEmptyArray(t *testing.T) {
	var items []string
	data, err := marshalJSONB(items)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = marshalJSONB([]string{"go"})
	require.NoError(t, err)
	assert.Equal(t, `["go"]`, string(data))
}

func TestUnmarshalJSONB_EmptyLeavesDestination(t *testing.T) {
	dst := []string{"kept"}
	require.NoError(t, unmarshalJSONB(nil, &dst))
	assert.Equal(t, []string{"kept"}, dst)

	require.NoError(t, unmarshalJSONB([]byte(`["a","b"]`), &dst))
	assert.Equal(t, []string{"a", "b"}, dst)
}

func TestNullableStrings(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	require.NotNil(t, nullIfEmpty("x"))
	assert.Equal(t, "x", derefString(nullIfEmpty("x")))
	assert.Equal(t, "", derefString(nil))
}

func TestOptionalJSON(t *testing.T) {
	type ref struct {
		Code string `json:"code"`
	}
	data, err := optionalJSON[ref](nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = optionalJSON(&ref{Code: "X1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"X1"}`, string(data))
}
