package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`create table a (id int); insert into a values (1);`)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}

	// semicolons inside string literals are not separators
	stmts = splitStatements(`insert into a values ('x;y'); insert into a values ('z');`)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "x;y") {
		t.Fatalf("literal mangled: %q", stmts[0])
	}

	// a trailing statement without a semicolon still counts
	stmts = splitStatements(`select 1`)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
}

func TestListSQLOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_later.up.sql", "0001_first.up.sql", "0001_first.down.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := listSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("listSQL: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 up migrations, got %d", len(files))
	}
	if files[0].name != "0001_first.up.sql" || files[1].name != "0002_later.up.sql" {
		t.Fatalf("wrong order: %v", files)
	}
}

func TestListSQLMissingDir(t *testing.T) {
	files, err := listSQL(filepath.Join(t.TempDir(), "nope"), ".sql")
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if files != nil {
		t.Fatalf("expected nil, got %v", files)
	}
}

func TestListSQLEmptyDirName(t *testing.T) {
	files, err := listSQL("", ".sql")
	if err != nil || files != nil {
		t.Fatalf("empty dir: %v %v", files, err)
	}
}
