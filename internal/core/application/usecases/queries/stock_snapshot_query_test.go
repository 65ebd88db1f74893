package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/core/application/usecases/queries"
)

func TestNewStockSnapshotQuery_Valid(t *testing.T) {
	query, err := queries.NewStockSnapshotQuery("A/1/1", "SKU-1")
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	require.NotNil(t, query.Location())
	assert.Equal(t, "A/1/1", query.Location().Code())
	assert.Equal(t, "SKU-1", query.SKU())
}

func TestNewStockSnapshotQuery_EmptyFilters(t *testing.T) {
	query, err := queries.NewStockSnapshotQuery("", "")
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	assert.Nil(t, query.Location())
	assert.Empty(t, query.SKU())
}

func TestNewStockSnapshotQuery_MalformedLocation(t *testing.T) {
	_, err := queries.NewStockSnapshotQuery("not-a-slot", "")
	require.Error(t, err)
}

func TestStockSnapshotQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.StockSnapshotQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrStockSnapshotQueryIsNotConstructed)
}
