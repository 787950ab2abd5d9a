package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/stripasm/internal/asm"
	"github.com/blackwell-systems/stripasm/internal/logger"
	"github.com/blackwell-systems/stripasm/internal/store"
)

func TestRecordRun_ReportsChangedOutputAtDefaultLevel(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var logs bytes.Buffer
	logger.InitWriter(&logs, false, true)

	first, err := asm.Process("f:\n\tret\n", asm.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, recordRun(db, "strip", "in.s", "out.s", first))
	assert.Empty(t, logs.String())

	require.NoError(t, recordRun(db, "strip", "in.s", "out.s", first))
	assert.Empty(t, logs.String(), "unchanged output is not reported")

	second, err := asm.Process("f:\n\tnop\n\tret\n", asm.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, recordRun(db, "strip", "in.s", "out.s", second))
	assert.Contains(t, logs.String(), "normalized output changed since last run")
	assert.Contains(t, logs.String(), "2 -> 3")

	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
