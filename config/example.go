package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const databaseSection = `## Database ##

database:
%s

# Number of events to cache in memory.
#
#event_cache_size: 10K
`

const defaultDatabaseConf = `# The database backend name
name: "sqlite"
# Arguments to pass to the backend
args:
  # Path to the database
  database: "%s"
`

// GenerateDatabaseSection renders the commented example "## Database ##"
// block for a generated config file. With a nil databaseConf it documents
// the default SQLite choice under dataDir; otherwise databaseConf is dumped
// as YAML beneath the database key.
func GenerateDatabaseSection(dataDir string, databaseConf map[string]any) (string, error) {
	body := ""
	if len(databaseConf) == 0 {
		path := filepath.Join(dataDir, DefaultDatabaseFile)
		body = fmt.Sprintf(defaultDatabaseConf, path)
	} else {
		out, err := yaml.Marshal(databaseConf)
		if err != nil {
			return "", fmt.Errorf("render database config: %w", err)
		}
		body = string(out)
	}

	return fmt.Sprintf(databaseSection, indent(body, "  ")), nil
}

// indent prefixes every non-empty line of s with prefix.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
