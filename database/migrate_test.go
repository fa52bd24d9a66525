package database

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS appointments")
	assert.Contains(t, migrations[0].SQL, "WHERE status <> 'cancelled'")
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestLoadFrom_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_later.sql":  {Data: []byte("SELECT 10")},
		"m/002_second.sql": {Data: []byte("SELECT 2")},
		"m/001_first.sql":  {Data: []byte("SELECT 1")},
		"m/README.md":      {Data: []byte("ignored")},
	}

	migrations, err := loadFrom(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{migrations[0].Version, migrations[1].Version, migrations[2].Version})
	assert.Equal(t, "later", migrations[2].Name)
	assert.Equal(t, "SELECT 2", migrations[1].SQL)
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no name":           {"m/001.sql": {Data: []byte("")}},
		"not a number":      {"m/abc_init.sql": {Data: []byte("")}},
		"duplicate version": {"m/001_a.sql": {Data: []byte("")}, "m/1_b.sql": {Data: []byte("")}},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadFrom(fsys, "m")
			assert.Error(t, err)
		})
	}
}

func TestPendingAndStatuses(t *testing.T) {
	all := []Migration{{Version: 1, Name: "init"}, {Version: 2, Name: "updated_at"}, {Version: 3, Name: "extra"}}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	done := map[int]time.Time{1: at}

	todo := pending(all, done)
	require.Len(t, todo, 2)
	assert.Equal(t, 2, todo[0].Version)
	assert.Equal(t, 3, todo[1].Version)

	st := statuses(all, done)
	require.Len(t, st, 3)
	assert.True(t, st[0].Applied)
	require.NotNil(t, st[0].AppliedAt)
	assert.Equal(t, at, *st[0].AppliedAt)
	assert.False(t, st[1].Applied)
	assert.Nil(t, st[1].AppliedAt)

	assert.Empty(t, pending(all, map[int]time.Time{1: at, 2: at, 3: at}))
}
