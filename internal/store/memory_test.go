package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id string, created time.Time) *Record {
	return &Record{
		ID:          id,
		ProjectName: "Demo",
		FileName:    "Demo.zip",
		Size:        3,
		SHA256:      "abc",
		Entries:     13,
		CreatedAt:   created,
	}
}

func TestMemoryStore_SaveGetArchive(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	archive := []byte("zip")
	require.NoError(t, s.Save(ctx, testRecord("a", time.Now()), archive))
	archive[0] = 'X'

	rec, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Demo.zip", rec.FileName)
	assert.Equal(t, 13, rec.Entries)

	data, err := s.Archive(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("zip"), data, "stored archive is a copy")

	data[0] = 'Y'
	again, err := s.Archive(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("zip"), again)
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Archive(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SaveRejectsEmptyID(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Save(context.Background(), &Record{}, nil))
	assert.Error(t, s.Save(context.Background(), nil, nil))
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, testRecord("old", base), nil))
	require.NoError(t, s.Save(ctx, testRecord("new", base.Add(time.Hour)), nil))
	require.NoError(t, s.Save(ctx, testRecord("mid", base.Add(time.Minute)), nil))

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "mid", records[1].ID)
	assert.Equal(t, "old", records[2].ID)

	records, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	records, err := NewMemoryStore().List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMemoryStore_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, testRecord(fmt.Sprintf("id-%d", i), now), []byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	records, err := s.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, records, 20)
	assert.NoError(t, s.Close())
}
