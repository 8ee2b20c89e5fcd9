// Package sqltest opens in-memory sqlite databases whose schema comes from
// the goose files under db/migrations, so repository specs run against the
// column set production actually gets instead of one derived from the models.
// A few postgres spellings are rewritten to sqlite equivalents; column names,
// constraints and indexes pass through untouched.
package sqltest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sqliteRewrites = strings.NewReplacer(
	"BIGSERIAL", "INTEGER",
	"TIMESTAMPTZ", "DATETIME",
	"now()", "CURRENT_TIMESTAMP",
)

// Open returns an in-memory database with every Up statement from
// db/migrations applied in file order.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	stmts, err := upStatements()
	if err != nil {
		return nil, err
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("migration statement failed: %w\n%s", err, stmt)
		}
	}
	return db, nil
}

func migrationsDir() (string, error) {
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("cannot locate sqltest source file")
	}
	root := filepath.Dir(filepath.Dir(filepath.Dir(self)))
	return filepath.Join(root, "db", "migrations"), nil
}

func upStatements() ([]string, error) {
	dir, err := migrationsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var stmts []string
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for _, stmt := range strings.Split(upSection(string(raw)), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			stmts = append(stmts, sqliteRewrites.Replace(stmt))
		}
	}
	return stmts, nil
}

// upSection extracts the statements between the goose Up and Down markers.
func upSection(sql string) string {
	var b strings.Builder
	inUp := false
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-- +goose Up"):
			inUp = true
		case strings.HasPrefix(trimmed, "-- +goose Down"):
			inUp = false
		case strings.HasPrefix(trimmed, "--"):
		case inUp:
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
