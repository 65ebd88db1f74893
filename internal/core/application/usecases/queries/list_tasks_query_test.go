package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/core/application/usecases/queries"
)

func TestNewListTasksQuery_Valid(t *testing.T) {
	query, err := queries.NewListTasksQuery([]string{"pending", "in_progress"}, "sales_order")
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	assert.Equal(t, []string{"pending", "in_progress"}, query.Statuses())
	assert.Equal(t, "sales_order", query.SourceType())
}

func TestNewListTasksQuery_EmptyFiltersMatchEverything(t *testing.T) {
	query, err := queries.NewListTasksQuery(nil, "")
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	assert.Empty(t, query.Statuses())
	assert.Empty(t, query.SourceType())
}

func TestNewListTasksQuery_RejectsUnknownStatus(t *testing.T) {
	_, err := queries.NewListTasksQuery([]string{"pending", "Shipped"}, "")
	require.Error(t, err)

	_, err = queries.NewListTasksQuery([]string{"inprogress"}, "")
	require.Error(t, err)
}

func TestListTasksQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.ListTasksQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrListTasksQueryIsNotConstructed)
}
