// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepsearch/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.HistoryConfig{OutputDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "index", "deepsearch.db"))
	assert.NoError(t, err)
}

func TestRecordAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &RunRecord{Query: "solar energy", Mode: ModeBasic, SourceCount: 3, Narrative: "SUMMARY: fine."}
	require.NoError(t, s.Record(ctx, rec))
	assert.Equal(t, int64(1), rec.ID)
	assert.False(t, rec.CreatedAt.IsZero(), "zero CreatedAt should be filled in")

	second := &RunRecord{Query: "wind energy", Mode: ModeDeep}
	require.NoError(t, s.Record(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestRecordListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &RunRecord{
		Query:         "geothermal",
		FollowUpQuery: "drilling costs",
		Mode:          ModeDeep,
		SourceCount:   7,
		Narrative:     "SUMMARY: deep findings.",
		Path:          "output/research_geothermal.json",
		CreatedAt:     time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Record(ctx, rec))

	records, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, *rec, records[0])
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, q := range []string{"oldest", "middle", "newest"} {
		rec := &RunRecord{Query: q, Mode: ModeBasic, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.Record(ctx, rec))
	}

	records, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "newest", records[0].Query)
	assert.Equal(t, "oldest", records[2].Query)
}

func TestListFullTextSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &RunRecord{Query: "solar panels", Mode: ModeBasic, Narrative: "photovoltaic efficiency gains"}))
	require.NoError(t, s.Record(ctx, &RunRecord{Query: "wind turbines", Mode: ModeBasic, Narrative: "offshore capacity"}))

	byQuery, err := s.List(ctx, QueryOptions{Query: "solar"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "solar panels", byQuery[0].Query)

	byNarrative, err := s.List(ctx, QueryOptions{Query: "offshore"})
	require.NoError(t, err)
	require.Len(t, byNarrative, 1)
	assert.Equal(t, "wind turbines", byNarrative[0].Query)

	none, err := s.List(ctx, QueryOptions{Query: "nuclear"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListModeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &RunRecord{Query: "a", Mode: ModeBasic}))
	require.NoError(t, s.Record(ctx, &RunRecord{Query: "b", Mode: ModeDeep}))
	require.NoError(t, s.Record(ctx, &RunRecord{Query: "c", Mode: ModeDeep}))

	deep, err := s.List(ctx, QueryOptions{Mode: ModeDeep})
	require.NoError(t, err)
	assert.Len(t, deep, 2)
	for _, rec := range deep {
		assert.Equal(t, ModeDeep, rec.Mode)
	}
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, &RunRecord{Query: "q", Mode: ModeBasic}))
	}

	records, err := s.List(ctx, QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListDefaultLimit(t *testing.T) {
	s, err := Open(types.HistoryConfig{OutputDir: t.TempDir(), MaxResults: 3})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, &RunRecord{Query: "q", Mode: ModeBasic}))
	}

	records, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &RunRecord{Query: "tidal power", Mode: ModeBasic, SourceCount: 2, Narrative: "n"}))

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, s.ExportYAML(ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []RunRecord
	require.NoError(t, yaml.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "tidal power", records[0].Query)
	assert.Equal(t, 2, records[0].SourceCount)
}

func TestOpenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := Open(types.HistoryConfig{OutputDir: dir})
	require.NoError(t, err)
	require.NoError(t, s1.Record(ctx, &RunRecord{Query: "persisted", Mode: ModeBasic}))
	require.NoError(t, s1.Close())

	s2, err := Open(types.HistoryConfig{OutputDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Query)
}
