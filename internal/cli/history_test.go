package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snapshot/internal/ledger"
	"github.com/roach88/snapshot/internal/testutil"
)

const (
	testRunID  = "01900000-0000-7000-8000-000000000001"
	olderRunID = "01900000-0000-7000-8000-000000000000"
)

// seedLedger creates a ledger with an older empty run and a run holding
// three outcomes and two stale artifacts.
func seedLedger(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := ledger.Open(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.WriteRun(ctx, olderRunID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, st.WriteRun(ctx, testRunID, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	for _, o := range []ledger.Outcome{
		{RunID: testRunID, Path: "__Snapshots__/user_test/TestUser.0.json", Outcome: ledger.OutcomeRecorded, Digest: ledger.Digest([]byte("v1"))},
		{RunID: testRunID, Path: "__Snapshots__/user_test/TestUser.0.json", Outcome: ledger.OutcomePassed, Digest: ledger.Digest([]byte("v1"))},
		{RunID: testRunID, Path: "__Snapshots__/user_test/TestUser.1.txt", Outcome: ledger.OutcomeFailed, Digest: ledger.Digest([]byte("v2"))},
	} {
		_, err := st.WriteOutcome(ctx, o)
		require.NoError(t, err)
	}
	for _, p := range []string{"__Snapshots__/user_test/TestOld.1.txt", "__Snapshots__/user_test/TestOld.0.txt"} {
		require.NoError(t, st.WriteStale(ctx, ledger.StaleArtifact{RunID: testRunID, Source: "user_test.go", Path: p}))
	}
	return path
}

func TestHistory_Text(t *testing.T) {
	g := testutil.Golden(t)
	db := seedLedger(t)

	out, err := execute(t, "history", "--db", db)

	require.NoError(t, err)
	g.Assert(t, "history_text", []byte(out))
}

func TestHistory_SelectRun(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "history", "--db", db, "--run", olderRunID)

	require.NoError(t, err)
	assert.Equal(t, "Run "+olderRunID+" (started 2026-01-01T00:00:00Z)\n\n\n0 assertions\n", out)
}

func TestHistory_UnknownRun(t *testing.T) {
	db := seedLedger(t)

	_, err := execute(t, "history", "--db", db, "--run", "nope")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}

func TestHistory_JSON(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, testRunID, resp.Data.Run.ID)
	require.Len(t, resp.Data.Outcomes, 3)
	assert.Equal(t, int64(3), resp.Data.Outcomes[2].Seq)
	assert.Equal(t, map[string]int{"failed": 1, "passed": 1, "recorded": 1}, resp.Data.Summary)
}

func TestHistory_ListRuns(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "history", "--db", db, "--runs")

	require.NoError(t, err)
	assert.Equal(t, olderRunID+"  2026-01-01T00:00:00Z\n"+testRunID+"  2026-01-02T03:04:05Z\n", out)
}

func TestHistory_VerboseShowsDigest(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "-v", "history", "--db", db)

	require.NoError(t, err)
	assert.Contains(t, out, ledger.Digest([]byte("v2"))[:12])
}

func TestHistory_MissingDatabase(t *testing.T) {
	_, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "absent.db"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open ledger")
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := execute(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestHistory_EmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := ledger.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = execute(t, "history", "--db", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger has no runs")
}

func TestStale_Text(t *testing.T) {
	g := testutil.Golden(t)
	db := seedLedger(t)

	out, err := execute(t, "stale", "--db", db)

	require.NoError(t, err)
	g.Assert(t, "stale_text", []byte(out))
}

func TestStale_Strict(t *testing.T) {
	db := seedLedger(t)

	_, err := execute(t, "stale", "--db", db, "--strict")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "stale", "--db", db, "--strict", "--run", olderRunID)
	assert.NoError(t, err)
}

func TestStale_None(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "stale", "--db", db, "--run", olderRunID)

	require.NoError(t, err)
	assert.Equal(t, "No stale snapshots in run "+olderRunID+".\n", out)
}

func TestStale_JSON(t *testing.T) {
	db := seedLedger(t)

	out, err := execute(t, "--format", "json", "stale", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data StaleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, testRunID, resp.Data.RunID)
	require.Len(t, resp.Data.Stale, 2)
	assert.Equal(t, "__Snapshots__/user_test/TestOld.0.txt", resp.Data.Stale[0].Path)
}
