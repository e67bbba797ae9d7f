package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/report"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReportCache(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, ok, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	r := report.New("flag-cleanup", []diag.Diagnostic{
		{Severity: diag.Warning, Code: diag.InputsMissing, Message: "No 'inputs' section defined", File: diag.FilePipeline},
	}, []report.Check{{File: diag.FileMetadata, Code: diag.NameFormat, Title: "'name' follows naming conventions"}})
	require.NoError(t, s.Put(ctx, "abc", r))
	require.NoError(t, s.Put(ctx, "abc", r))

	got, ok, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Run{RunID: "r1", Template: "a", Digest: "d1", Errors: 1, CreatedAt: base}))
	require.NoError(t, s.Record(ctx, Run{RunID: "r1", Template: "b", Digest: "d2", Passed: true, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.Record(ctx, Run{RunID: "r2", Template: "a", Digest: "d1", Errors: 1, Cached: true, CreatedAt: base.Add(2 * time.Minute)}))

	all, err := s.History(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r2", all[0].RunID)
	assert.True(t, all[0].Cached)
	assert.NotEmpty(t, all[0].ID)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	onlyA, err := s.History(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "a", onlyA[0].Template)
	assert.Equal(t, 1, onlyA[0].Errors)
}
