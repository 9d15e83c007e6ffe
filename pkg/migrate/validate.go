package migrate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredMarkers = [][]byte{
	[]byte("-- +goose Up"),
	[]byte("-- +goose Down"),
}

// ValidateDir reports every badly named, duplicated or unmarked migration in
// dir instead of stopping at the first one.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("migrate: migrations directory not set")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrate: list %s: %w", dir, err)
	}

	var problems error
	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		match := migrationFileName.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("%s: name must look like <version>_<slug>.sql", name))
			continue
		}
		if first, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("%s: version %s already used by %s", name, match[1], first))
			continue
		}
		versions[match[1]] = name
		problems = multierr.Append(problems, checkMarkers(filepath.Join(dir, name)))
	}
	return problems
}

func checkMarkers(path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	var missing error
	for _, marker := range requiredMarkers {
		if !bytes.Contains(body, marker) {
			missing = multierr.Append(missing, fmt.Errorf("%s: no %q section", filepath.Base(path), marker))
		}
	}
	return missing
}
