package persist

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/listpositions/pkg/order"
)

func TestManagerSaveLoadOrderMeta(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	defer m.Close()

	metas := []order.BunchMeta{
		{BunchID: "r1_b1", ParentID: order.RootID, Offset: 1},
		{BunchID: "r1_b2", ParentID: "r1_b1", Offset: 0},
	}
	require.NoError(t, m.SaveOrderMeta("r1", metas))

	loaded, err := m.LoadOrderMeta("r1")
	require.NoError(t, err)
	assert.Equal(t, metas, loaded)
}

func TestManagerLoadOrderMetaMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	defer m.Close()

	loaded, err := m.LoadOrderMeta("never-saved")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestManagerSaveLoadListSnapshot(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.SaveListSnapshot("todo", []byte(`[{"bunchId":"r1_b1","entries":[]}]`)))

	data, err := m.LoadListSnapshot("todo")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"bunchId":"r1_b1","entries":[]}]`, string(data))

	names, err := m.Lists()
	require.NoError(t, err)
	assert.Equal(t, []string{"todo"}, names)
}

func TestManagerReplaysWALOnReopenAfterIndexLoss(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)

	metas := []order.BunchMeta{{BunchID: "r1_b1", ParentID: order.RootID, Offset: 1}}
	require.NoError(t, m.SaveOrderMeta("r1", metas))
	require.NoError(t, m.Close())

	// Simulate losing the pebble index while the WAL survives: Open must
	// rebuild it by replaying the log.
	require.NoError(t, os.RemoveAll(dir+"/index"))

	m2, err := Open(dir)
	require.NoError(t, err)
	defer m2.Close()

	loaded, err := m2.LoadOrderMeta("r1")
	require.NoError(t, err)
	assert.Equal(t, metas, loaded)
}
