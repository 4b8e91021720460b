package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/xbrl-engine/xbrl"
)

func TestMemory_SaveGetListDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.Save(ctx, xbrl.DocumentRecord{ID: "old", Kind: "installation", XML: []byte("<x/>"), CreatedAt: base}))
	require.NoError(t, m.Save(ctx, xbrl.DocumentRecord{ID: "new", Kind: "operating", JSON: []byte("{}"), CreatedAt: base.Add(time.Hour)}))

	got, err := m.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(got.XML))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Nil(t, list[0].JSON)

	require.NoError(t, m.Delete(ctx, "old"))
	_, err = m.Get(ctx, "old")
	assert.ErrorIs(t, err, xbrl.ErrDocumentNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "old"), xbrl.ErrDocumentNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	body := []byte("<x/>")
	require.NoError(t, m.Save(ctx, xbrl.DocumentRecord{ID: "a", XML: body}))

	body[1] = 'y'
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	got.XML[1] = 'z'

	again, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(again.XML))
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, xbrl.DocumentRecord{ID: "a"}))
	require.NoError(t, m.Reset(ctx))

	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
