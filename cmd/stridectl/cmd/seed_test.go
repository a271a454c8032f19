package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridelog/stridelog/internal/db"
	"github.com/stridelog/stridelog/internal/repository"
)

func TestSeed(t *testing.T) {
	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	now := time.Now().UTC().Truncate(time.Second)
	goal, err := Seed(context.Background(), database, time.Second, "demo", now)
	require.NoError(t, err)

	entries, err := repository.NewProgressEntryRepository(database, time.Second).Entries(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 7)
	assert.True(t, entries[0].Date.Equal(now.AddDate(0, 0, -7)))
}

func TestMigrateCmdHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range MigrateCmd().Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["up"])
	assert.True(t, names["down"])
	assert.True(t, names["status"])
}
