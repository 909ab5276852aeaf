package mutation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appweld/internal/generator"
	"appweld/internal/model"
)

// stubOracle scripts both oracle calls for tests.
type stubOracle struct {
	plan       string
	planErr    error
	rewrites   map[string]string // keyed by rationale
	rewriteErr map[string]error
}

func (s *stubOracle) PlanEdits(_ context.Context, _, _ string) (string, error) {
	return s.plan, s.planErr
}

func (s *stubOracle) RewriteFile(_ context.Context, rationale, _ string) (string, error) {
	if err, ok := s.rewriteErr[rationale]; ok {
		return "", err
	}
	if out, ok := s.rewrites[rationale]; ok {
		return out, nil
	}
	return "// rewritten\n", nil
}

func TestEngine_BackupInvariant(t *testing.T) {
	root := t.TempDir()
	original := "const old = true;\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "server.js"), []byte(original), 0644))

	o := &stubOracle{
		plan: "File: server.js\nMount the proxy.\n\nFile: middleware/session.js\nCreate the session middleware.\n",
		rewrites: map[string]string{
			"Mount the proxy.":               "const proxied = true;\n",
			"Create the session middleware.": "module.exports = {};\n",
		},
	}

	report, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.NoError(t, err)
	require.Len(t, report.Changes, 2)

	t.Run("Pre-existing File Gets A Backup", func(t *testing.T) {
		assert.True(t, report.Changes[0].Success)
		backup, err := os.ReadFile(filepath.Join(root, "server.js.bak"))
		require.NoError(t, err)
		assert.Equal(t, original, string(backup), "backup holds the pre-mutation content")

		current, err := os.ReadFile(filepath.Join(root, "server.js"))
		require.NoError(t, err)
		assert.Equal(t, "const proxied = true;\n", string(current))
	})

	t.Run("New File Gets No Backup", func(t *testing.T) {
		assert.True(t, report.Changes[1].Success)
		_, err := os.Stat(filepath.Join(root, "middleware/session.js.bak"))
		assert.True(t, os.IsNotExist(err))

		current, err := os.ReadFile(filepath.Join(root, "middleware/session.js"))
		require.NoError(t, err)
		assert.Equal(t, "module.exports = {};\n", string(current))
	})

	t.Run("Diff Attached On Success", func(t *testing.T) {
		assert.Contains(t, report.Changes[0].Diff, "-const old = true;")
		assert.Contains(t, report.Changes[0].Diff, "+const proxied = true;")
	})
}

func TestEngine_PerFileFailureIsolation(t *testing.T) {
	root := t.TempDir()

	o := &stubOracle{
		plan: "File: ok.js\nGood change.\n\nFile: bad.js\nBroken change.\n\nFile: also-ok.js\nAnother good change.\n",
		rewriteErr: map[string]error{
			"Broken change.": errors.New("model overloaded"),
		},
	}

	report, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.NoError(t, err)
	require.Len(t, report.Changes, 3, "one entry per directive, failures included")

	assert.True(t, report.Changes[0].Success)
	assert.False(t, report.Changes[1].Success)
	assert.Contains(t, report.Changes[1].Error, "model overloaded")
	assert.True(t, report.Changes[2].Success)

	_, statErr := os.Stat(filepath.Join(root, "bad.js"))
	assert.True(t, os.IsNotExist(statErr), "failed directive writes nothing")
}

func TestEngine_PathEscapeRejected(t *testing.T) {
	root := t.TempDir()
	o := &stubOracle{plan: "File: ../outside.js\nEscape attempt.\n"}

	report, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.NoError(t, err)
	require.Len(t, report.Changes, 1)
	assert.False(t, report.Changes[0].Success)
	assert.Contains(t, report.Changes[0].Error, "escapes the app root")
}

func TestEngine_OracleUnreachableAborts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "server.js"), []byte("x\n"), 0644))

	o := &stubOracle{planErr: errors.New("connection refused")}
	_, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.Error(t, err)

	// Nothing was attempted: no backups, no writes, lock released.
	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "server.js", entries[0].Name())
}

func TestEngine_EmptyPlanIsSuccess(t *testing.T) {
	o := &stubOracle{plan: "I could not identify any required changes."}
	report, err := New(o, nil).Mutate(context.Background(), t.TempDir(), model.New(), generator.Preferences{})
	require.NoError(t, err)
	assert.Empty(t, report.Changes)
}

func TestEngine_LockFileGuardsConcurrentRuns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, lockFileName), []byte(""), 0644))

	o := &stubOracle{plan: ""}
	_, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.ErrorIs(t, err, ErrBusy)
}

func TestEngine_BackupIsLastMutationWins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("v1\n"), 0644))

	o := &stubOracle{
		plan:     "File: a.js\nFirst pass.\n",
		rewrites: map[string]string{"First pass.": "v2\n", "Second pass.": "v3\n"},
	}
	_, err := New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.NoError(t, err)

	o.plan = "File: a.js\nSecond pass.\n"
	_, err = New(o, nil).Mutate(context.Background(), root, model.New(), generator.Preferences{})
	require.NoError(t, err)

	backup, err := os.ReadFile(filepath.Join(root, "a.js.bak"))
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(backup), "second run overwrote the first run's backup")
}
