package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appweld/internal/generator"
	"appweld/internal/model"
)

func generateAll(t *testing.T) (string, []generator.GeneratedFile) {
	t.Helper()
	out := t.TempDir()
	m := model.New()
	m.Framework = model.FrameworkExpress
	m.Models = []model.DataModel{{Name: "User", Collection: "users", SourceFile: "models/user.js", ORM: model.ORMMongoose}}

	files, err := generator.New(t.TempDir(), out, nil).Generate(m, generator.Preferences{
		AppName:     "Task Tracker",
		Description: "demo",
		Category:    "productivity",
		AddAuth:     true,
		AddDatabase: true,
		AddBranding: true,
	})
	require.NoError(t, err)
	return out, files
}

func TestVerifier_CleanGenerationPasses(t *testing.T) {
	out, files := generateAll(t)

	report := New(nil).Verify(out, files)

	assert.Zero(t, report.Failed, "errors: %v", report.Errors)
	assert.Equal(t, report.Total, report.Passed)
	assert.NotZero(t, report.Total)
}

func TestVerifier_MissingMarkerFailsThatCheckOnly(t *testing.T) {
	out, files := generateAll(t)
	clean := New(nil).Verify(out, files)

	// Strip the session mechanism name from the middleware artifact.
	var session generator.GeneratedFile
	for _, f := range files {
		if f.Type == generator.TypeSessionMiddleware {
			session = f
		}
	}
	abs := filepath.Join(out, filepath.FromSlash(session.Path))
	raw, err := os.ReadFile(abs)
	require.NoError(t, err)
	mutated := []byte("// session mechanism removed\nconst requirePlatformSession = null;\nmodule.exports = { requirePlatformSession };\n")
	require.NotEqual(t, string(raw), string(mutated))
	require.NoError(t, os.WriteFile(abs, mutated, 0644))

	report := New(nil).Verify(out, files)

	assert.Equal(t, clean.Failed+1, report.Failed, "exactly one more failed check")
	assert.Equal(t, clean.Total, report.Total, "check count is stable")
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "express-session")
}

func TestVerifier_MissingFile(t *testing.T) {
	out, files := generateAll(t)

	var proxy generator.GeneratedFile
	for _, f := range files {
		if f.Type == generator.TypeProxyRoute {
			proxy = f
		}
	}
	require.NoError(t, os.Remove(filepath.Join(out, filepath.FromSlash(proxy.Path))))

	report := New(nil).Verify(out, files)

	// Existence, surface, and both markers fail for the missing artifact.
	assert.Equal(t, 4, report.Failed)
	assert.NotZero(t, report.Passed, "other artifacts still verified")
}

func TestVerifier_EmptyFileFails(t *testing.T) {
	out, files := generateAll(t)

	var env generator.GeneratedFile
	for _, f := range files {
		if f.Type == generator.TypeEnvConfig {
			env = f
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(out, filepath.FromSlash(env.Path)), nil, 0644))

	report := New(nil).Verify(out, files)

	// Existence fails plus the three env-var markers.
	assert.Equal(t, 4, report.Failed)
}

func TestVerifier_ManifestPatchMustParse(t *testing.T) {
	out, files := generateAll(t)

	var patch generator.GeneratedFile
	for _, f := range files {
		if f.Type == generator.TypeManifestPatch {
			patch = f
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(out, filepath.FromSlash(patch.Path)), []byte("{broken"), 0644))

	report := New(nil).Verify(out, files)

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "not valid JSON")
}
