package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	srcURL := "file:" + filepath.Join(dir, "src.db")
	dstURL := "file:" + filepath.Join(dir, "dst.db")
	ctx := context.Background()

	src, err := sqldb.NewRepository(ctx, srcURL, nil)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, src.Create(ctx, &domain.Link{Code: "keep12", TargetURL: "https://example.com/keep", CreatedAt: now}))
	require.NoError(t, src.Create(ctx, &domain.Link{Code: "drop12", TargetURL: "https://example.com/drop", CreatedAt: now}))
	require.NoError(t, src.RecordClick(ctx, "keep12", now))
	require.NoError(t, src.Delete(ctx, "drop12"))
	require.NoError(t, src.Close())

	t.Setenv("DATABASE_URL", srcURL)
	exported := runCLI(t, "export")

	var links []domain.Link
	require.NoError(t, json.Unmarshal([]byte(exported), &links))
	require.Len(t, links, 2)

	exportFile := filepath.Join(dir, "links.json")
	require.NoError(t, os.WriteFile(exportFile, []byte(exported), 0o600))

	t.Setenv("DATABASE_URL", dstURL)
	runCLI(t, "import", "--file", exportFile)
	// Second import skips everything.
	runCLI(t, "import", "--file", exportFile)

	dst, err := sqldb.NewRepository(ctx, dstURL, nil)
	require.NoError(t, err)
	defer dst.Close()

	got, err := dst.GetByCode(ctx, "keep12")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalClicks)

	_, err = dst.GetByCode(ctx, "drop12")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := dst.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMigrate(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "fresh.db"))
	runCLI(t, "migrate")
	// Idempotent.
	runCLI(t, "migrate")
}
