package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// migrationSkeleton is written for both drivers; the schema statements are
// filled in by hand afterwards.
const migrationSkeleton = `-- +goose Up
-- +goose StatementBegin
-- greenhouse storefront: %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- undo greenhouse storefront: %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <version>_<slug>.sql into dir and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("migrate: migrations directory not set")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migrate: %q has no usable characters for a migration name", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("migrate: prepare %s: %w", dir, err)
	}

	path := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("migrate: %s already exists, retry in a second", filepath.Base(path))
	}
	if err != nil {
		return "", fmt.Errorf("migrate: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, migrationSkeleton, slug); err != nil {
		return "", fmt.Errorf("migrate: write %s: %w", path, err)
	}
	return path, nil
}

// migrationSlug lowercases name and joins its alphanumeric runs with underscores.
func migrationSlug(name string) string {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(slug, "_")
}
