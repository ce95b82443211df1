package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}}{{if .Down}} (rollback){{end}}
-- Created: {{.Timestamp}}
{{if .Description}}-- {{.Description}}
{{end}}
`))

// MigrationFile is a created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair named <timestamp>_<name>
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	prefix := filepath.Join(migrationsDir, version+"_"+base)

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
		UpPath:      prefix + ".up.sql",
		DownPath:    prefix + ".down.sql",
	}

	if err := writeFile(mf.UpPath, mf, false); err != nil {
		return nil, err
	}
	if err := writeFile(mf.DownPath, mf, true); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeFile(path string, mf *MigrationFile, down bool) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	data := struct {
		*MigrationFile
		Down bool
	}{mf, down}
	if err := fileTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeName lowercases name and joins alphanumeric runs with underscores
func sanitizeName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		kept := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, f)
		if kept != "" {
			parts = append(parts, kept)
		}
	}
	return strings.Join(parts, "_")
}

// ListMigrations returns the base names of all up migrations, sorted
func ListMigrations(migrationsDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
