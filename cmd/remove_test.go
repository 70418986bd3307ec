package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/project"
)

func TestRunRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	proj, err := project.Create(ctx, dir)
	require.NoError(t, err)
	_, err = proj.Store.UpsertItems(ctx, []items.WorkItem{
		{ID: "A-1", Title: "Drop legacy exporter"},
		{ID: "A-2", Title: "Add retry budget", Dependencies: []string{"A-1"}},
	})
	require.NoError(t, err)
	require.NoError(t, proj.Close())

	flagProject = dir
	t.Cleanup(func() { flagProject = "" })

	require.NoError(t, runRemove(removeCmd, []string{"A-1", "missing"}))

	proj, err = project.Find(ctx, dir)
	require.NoError(t, err)
	defer proj.Close()

	list, err := proj.Store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "A-2", list[0].ID)
	require.Equal(t, []string{"A-1"}, list[0].Dependencies)
}
