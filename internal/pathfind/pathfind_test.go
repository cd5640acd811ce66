package pathfind

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestResolveLiteralAbsolute(t *testing.T) {
	// Literal paths pass through untouched; existence is checked downstream.
	r := New()
	got, err := r.Resolve("/no/such/place/file.csv")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "/no/such/place/file.csv" {
		t.Errorf("got %q", got)
	}
}

func TestResolveLiteralRelative(t *testing.T) {
	dir := t.TempDir()
	r := &Resolver{BaseDir: func() (string, error) { return dir, nil }}

	got, err := r.Resolve("sub/file.csv")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(dir, "sub", "file.csv"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveNewestWins(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "name_1.csv")
	newer := filepath.Join(dir, "name_2.csv")
	writeFile(t, old, "a\n1\n")
	writeFile(t, newer, "a\n2\n")

	now := time.Now().Truncate(time.Second)
	touch(t, old, now.Add(-time.Hour))
	touch(t, newer, now)

	r := New()
	got, err := r.Resolve(filepath.Join(dir, "name_{[0-9]+}.csv"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != newer {
		t.Errorf("got %q, want %q", got, newer)
	}
}

func TestResolveRegexExcludesNonMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "name_abc.csv"), "x\n")
	writeFile(t, filepath.Join(dir, "name_42.csv"), "x\n")

	r := New()
	got, err := r.Resolve(filepath.Join(dir, "name_{[0-9]+}.csv"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if filepath.Base(got) != "name_42.csv" {
		t.Errorf("got %q, want name_42.csv", got)
	}
}

func TestResolveEmptyInteriorMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "name_.csv"), "x\n")

	r := New()
	got, err := r.Resolve(filepath.Join(dir, "name_{[0-9]*}.csv"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if filepath.Base(got) != "name_.csv" {
		t.Errorf("got %q", got)
	}
}

func TestResolveSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "name_9.csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "name_1.csv"), "x\n")

	r := New()
	got, err := r.Resolve(filepath.Join(dir, "name_{[0-9]+}.csv"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if filepath.Base(got) != "name_1.csv" {
		t.Errorf("got %q", got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "other.csv"), "x\n")

	r := New()
	_, err := r.Resolve(filepath.Join(dir, "name_{[0-9]+}.csv"))
	if !eris.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestResolveNoParent(t *testing.T) {
	r := New()
	_, err := r.Resolve("/no-such-dir-for-pathfind-test/name_{[0-9]+}.csv")
	if !eris.Is(err, ErrNoParentPath) {
		t.Fatalf("expected ErrNoParentPath, got %v", err)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	// Equal mtime and size, names equal ignoring case: a true three-key tie.
	dir := t.TempDir()
	a := filepath.Join(dir, "name_A.csv")
	b := filepath.Join(dir, "name_a.csv")
	writeFile(t, a, "same-size\n")
	writeFile(t, b, "same-size\n")

	mod := time.Now().Truncate(time.Second)
	touch(t, a, mod)
	touch(t, b, mod)

	r := New()
	_, err := r.Resolve(filepath.Join(dir, "name_{.+}.csv"))
	if !eris.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}
}

func TestResolveEqualMtimeDifferentNamesNotAmbiguous(t *testing.T) {
	// Distinct names break the tie even with identical mtime and size.
	dir := t.TempDir()
	a := filepath.Join(dir, "name_1.csv")
	b := filepath.Join(dir, "name_2.csv")
	writeFile(t, a, "same-size\n")
	writeFile(t, b, "same-size\n")

	mod := time.Now().Truncate(time.Second)
	touch(t, a, mod)
	touch(t, b, mod)

	r := New()
	got, err := r.Resolve(filepath.Join(dir, "name_{[0-9]+}.csv"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if filepath.Base(got) != "name_1.csv" && filepath.Base(got) != "name_2.csv" {
		t.Errorf("got %q", got)
	}
}

func TestResolveUnterminatedPlaceholder(t *testing.T) {
	r := New()
	if _, err := r.Resolve("name_{[0-9]+.csv"); err == nil {
		t.Fatal("expected error for unterminated placeholder")
	}
}

func TestResolveInvalidRegex(t *testing.T) {
	r := New()
	if _, err := r.Resolve("name_{[}.csv"); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestResolveBarePlaceholderPrefix(t *testing.T) {
	// Pattern whose prefix is just a directory: whole filename minus suffix
	// goes to the regex.
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report.csv"), "x\n")

	r := New()
	got, err := r.Resolve(dir + string(os.PathSeparator) + "{.*}.csv")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if filepath.Base(got) != "report.csv" {
		t.Errorf("got %q", got)
	}
}
