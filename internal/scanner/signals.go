package scanner

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Fixed keyword sets for dependency-based auth/database signals. Membership
// is exact package-name match against the merged dependency map.
var authDependencyKeywords = []string{
	"passport", "next-auth", "jsonwebtoken", "express-session",
	"bcrypt", "bcryptjs", "jose", "auth0", "@auth0/nextjs-auth0",
}

var databaseDependencyKeywords = []string{
	"mongoose", "prisma", "@prisma/client", "pg", "mysql", "mysql2",
	"sequelize", "mongodb", "typeorm", "knex", "sqlite3",
}

// Fixed path-glob sets for file-based signals, matched against slash-separated
// paths relative to the scan root.
var authPathGlobs = []string{
	"**/auth/**", "**/middleware/auth*", "**/login*", "**/signin*",
	"pages/api/auth/**", "app/api/auth/**",
}

var databasePathGlobs = []string{
	"**/models/**", "prisma/**", "**/db/**", "**/database/**", "**/*.prisma",
}

func hasDependencySignal(deps map[string]string, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := deps[k]; ok {
			return true
		}
	}
	return false
}

// hasPathSignal reports whether any file under root matches one of the globs.
// It stops at the first hit; walk errors are treated as "no signal".
func hasPathSignal(root string, globs []string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && (d.Name() == "node_modules" || d.Name() == ".git") {
			return filepath.SkipDir
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, g := range globs {
			if ok, matchErr := doublestar.Match(g, rel); matchErr == nil && ok {
				found = true
				return fs.SkipAll
			}
		}
		return nil
	})
	return found
}
