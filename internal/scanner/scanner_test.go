package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appweld/internal/model"
)

// writeTree materializes a fixture tree under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestScanner_DetectsNextApp(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json":   `{"dependencies": {"next": "14.1.0", "react": "18.2.0"}}`,
		"next.config.js": "module.exports = {}\n",
		"pages/index.js": "export default function Home() { return null }\n",
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, model.FrameworkNext, m.Framework)
	assert.Equal(t, model.AppTypeWeb, m.AppType)
	assert.Equal(t, "14.1.0", m.Dependencies["next"])
}

func TestScanner_DetectsExpressAPI(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": `{"dependencies": {"express": "4.18.2"}}`,
		"app.js":       "const app = require('express')()\n",
		"routes/users.js": `
const router = require('express').Router()
router.get('/api/users', listUsers)
router.post('/api/users', createUser)
`,
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, model.FrameworkExpress, m.Framework)
	assert.Equal(t, model.AppTypeAPI, m.AppType)

	require.Len(t, m.APIRoutes, 2)
	assert.Equal(t, "GET", m.APIRoutes[0].Method)
	assert.Equal(t, "/api/users", m.APIRoutes[0].Path)
	assert.Equal(t, "routes/users.js", m.APIRoutes[0].SourceFile)
	assert.Equal(t, "POST", m.APIRoutes[1].Method)
}

func TestScanner_RouteFamiliesUnion(t *testing.T) {
	// Both route families apply to every candidate file. This handler file
	// also wires a verb call, so the verb-call and exported-handler families
	// each contribute a route for the same endpoint, with no deduplication.
	root := writeTree(t, map[string]string{
		"pages/api/users.js": `
import app from '../../server'
app.get('/api/users', listUsers)
export default async function handler(req, res) {}
`,
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	require.Len(t, m.APIRoutes, 2)

	var verb, handler int
	for _, r := range m.APIRoutes {
		assert.Equal(t, "/api/users", r.Path)
		assert.Equal(t, "pages/api/users.js", r.SourceFile)
		switch r.Framework {
		case model.FrameworkExpress:
			verb++
			assert.Equal(t, "GET", r.Method)
		case model.FrameworkNext:
			handler++
			assert.Equal(t, "ALL", r.Method)
		}
	}
	assert.Equal(t, 1, verb)
	assert.Equal(t, 1, handler)
}

func TestScanner_ExtractsModels(t *testing.T) {
	root := writeTree(t, map[string]string{
		"models/user.js": `
const mongoose = require('mongoose')
const userSchema = new mongoose.Schema({ name: String })
module.exports = mongoose.model('User', userSchema)
`,
		"prisma/schema.prisma": `
model Post {
  id Int @id
}
model Comment {
  id Int @id
}
`,
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	require.Len(t, m.Models, 3)

	byName := map[string]model.DataModel{}
	for _, dm := range m.Models {
		byName[dm.Name] = dm
	}

	user := byName["User"]
	assert.Equal(t, model.ORMMongoose, user.ORM)
	assert.Equal(t, "users", user.Collection)
	assert.Equal(t, "models/user.js", user.SourceFile)

	post := byName["Post"]
	assert.Equal(t, model.ORMPrisma, post.ORM)
	assert.Empty(t, post.Collection)

	// Every model yields a database integration point.
	dbPoints := 0
	for _, p := range m.IntegrationPoints {
		if p.Kind == model.IntegrationDatabase {
			dbPoints++
		}
	}
	assert.Equal(t, 3, dbPoints)
}

func TestScanner_ComponentsAndBrandingPoints(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/components/NavBar.jsx": "export default function NavBar() { return null }\n",
		"src/components/Button.jsx": "export const Button = () => null\n",
		// Exported uppercase constant: a known, accepted false positive.
		"src/config.js": "export const Settings = { theme: 'dark' }\n",
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	names := []string{}
	for _, c := range m.Components {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"NavBar", "Button", "Settings"}, names)

	var branding []model.IntegrationPoint
	for _, p := range m.IntegrationPoints {
		if p.Kind == model.IntegrationBranding {
			branding = append(branding, p)
		}
	}
	require.Len(t, branding, 1)
	assert.Equal(t, "src/components/NavBar.jsx", branding[0].SourceFile)
}

func TestScanner_AuthAndDatabaseSignals(t *testing.T) {
	t.Run("Dependency Signal", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"package.json": `{"dependencies": {"express-session": "1.17.0", "mongoose": "8.0.0"}}`,
		})
		m, err := New(nil).Scan(root)
		require.NoError(t, err)
		assert.True(t, m.HasAuth)
		assert.True(t, m.HasDatabase)
	})

	t.Run("Path Signal", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"middleware/auth.js": "export default function auth() {}\n",
			"db/connect.js":      "export const connect = () => {}\n",
		})
		m, err := New(nil).Scan(root)
		require.NoError(t, err)
		assert.True(t, m.HasAuth)
		assert.True(t, m.HasDatabase)
	})

	t.Run("No Signal", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"index.js": "console.log('hi')\n",
		})
		m, err := New(nil).Scan(root)
		require.NoError(t, err)
		assert.False(t, m.HasAuth)
		assert.False(t, m.HasDatabase)
	})
}

func TestScanner_ProtectedRoutesYieldAuthPoints(t *testing.T) {
	root := writeTree(t, map[string]string{
		"routes/admin.js": "router.get('/api/admin/stats', handler)\n",
		"routes/open.js":  "router.get('/api/health', handler)\n",
	})

	m, err := New(nil).Scan(root)
	require.NoError(t, err)

	var auth []model.IntegrationPoint
	for _, p := range m.IntegrationPoints {
		if p.Kind == model.IntegrationAuth {
			auth = append(auth, p)
		}
	}
	require.Len(t, auth, 1)
	assert.Equal(t, "routes/admin.js", auth[0].SourceFile)
}

func TestScanner_Idempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json":       `{"dependencies": {"next": "14.0.0"}}`,
		"next.config.js":     "module.exports = {}\n",
		"pages/api/users.js": "export async function GET(req) {}\n",
		"models/user.js":     "mongoose.model('User', schema)\n",
	})

	s := New(nil)
	first, err := s.Scan(root)
	require.NoError(t, err)
	second, err := s.Scan(root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanner_InputErrors(t *testing.T) {
	t.Run("Missing Root", func(t *testing.T) {
		_, err := New(nil).Scan(filepath.Join(t.TempDir(), "nope"))
		var scanErr *ScanError
		require.ErrorAs(t, err, &scanErr)
		assert.Equal(t, "open", scanErr.Op)
	})

	t.Run("Unparsable Manifest", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"package.json": "{not json",
		})
		_, err := New(nil).Scan(root)
		var scanErr *ScanError
		require.ErrorAs(t, err, &scanErr)
		assert.Equal(t, "manifest", scanErr.Op)
	})

	t.Run("Missing Manifest Is Not An Error", func(t *testing.T) {
		root := writeTree(t, map[string]string{"index.js": "1\n"})
		m, err := New(nil).Scan(root)
		require.NoError(t, err)
		assert.Equal(t, model.FrameworkUnknown, m.Framework)
		assert.Equal(t, model.AppTypeUnknown, m.AppType)
	})
}
