package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const manifestName = "package.json"

// packageManifest is the subset of package.json the scanner cares about.
type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// readManifest parses <root>/package.json into a merged runtime+dev
// dependency map. A missing manifest yields an empty map and no error;
// malformed JSON is an error the caller turns into a ScanError.
func readManifest(root string) (map[string]string, error) {
	raw, err := os.ReadFile(filepath.Join(root, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var pkg packageManifest
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, err
	}

	deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, version := range pkg.Dependencies {
		deps[name] = version
	}
	for name, version := range pkg.DevDependencies {
		deps[name] = version
	}
	return deps, nil
}
