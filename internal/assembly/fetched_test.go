package assembly

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBestEffort(t *testing.T) {
	got := fetchBestEffort(context.Background(), "courses", []string{}, func(context.Context) ([]string, error) {
		return []string{"Go"}, nil
	})
	assert.Nil(t, got.Warning)
	assert.Equal(t, []string{"Go"}, got.Value)

	got = fetchBestEffort(context.Background(), "courses", []string{}, func(context.Context) ([]string, error) {
		return []string{"partial"}, errors.New("timeout")
	})
	require.NotNil(t, got.Warning)
	assert.Equal(t, Warning{Source: "courses", Message: "timeout"}, *got.Warning)
	assert.Equal(t, []string{}, got.Value)
}
