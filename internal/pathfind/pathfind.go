// Package pathfind locates a concrete file on disk from a path that may embed
// a {regex} placeholder in its filename, e.g. "data/report_{[0-9]+}.csv".
// Among the files whose names match the surrounding prefix and suffix with an
// interior accepted by the user's regex, the most recently modified one wins.
package pathfind

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	// ErrNoParentPath means the directory portion of the pattern does not
	// exist or cannot be listed.
	ErrNoParentPath = eris.New("pathfind: pattern has no readable parent directory")

	// ErrNoMatch means no file in the search directory satisfied the
	// prefix, suffix, and regex constraints.
	ErrNoMatch = eris.New("pathfind: no files match pattern")

	// ErrAmbiguousMatch means the two best candidates are indistinguishable
	// by modification time, name, and size.
	ErrAmbiguousMatch = eris.New("pathfind: ambiguous match, two candidates rank equally")
)

// Resolver turns configured path patterns into concrete paths. BaseDir
// anchors relative patterns; it defaults to the process working directory,
// and callers shipping a relocatable binary can point it at ExecutableDir.
type Resolver struct {
	BaseDir func() (string, error)
}

// New returns a Resolver anchored at the working directory.
func New() *Resolver {
	return &Resolver{BaseDir: os.Getwd}
}

// ExecutableDir is a BaseDir policy that anchors relative patterns next to
// the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", eris.Wrap(err, "pathfind: locate executable")
	}
	return filepath.Dir(exe), nil
}

type candidate struct {
	path    string
	name    string
	modTime time.Time
	size    int64
}

// Resolve returns the concrete file path for pattern.
//
// A pattern without a {regex} placeholder is returned as an absolute path
// without touching the filesystem; existence is checked downstream when the
// file is opened. With a placeholder, the direct entries of the pattern's
// parent directory are scanned and the best match chosen by modification
// time, then name, then size. Only the top two sorted candidates are
// compared for the ambiguity check; a three-way true tie still resolves to
// the top entry. Names compare case-insensitively so behavior matches on
// case-preserving filesystems.
func (r *Resolver) Resolve(pattern string) (string, error) {
	open := strings.Index(pattern, "{")
	if open < 0 {
		return r.absolutize(pattern)
	}

	closing := strings.LastIndex(pattern, "}")
	if closing < open {
		return "", eris.Errorf("pathfind: unterminated placeholder in %q", pattern)
	}

	prefix := pattern[:open]
	interior := pattern[open+1 : closing]
	suffix := pattern[closing+1:]

	userRE, err := regexp.Compile("^(?:" + interior + ")$")
	if err != nil {
		return "", eris.Wrapf(err, "pathfind: invalid regex in placeholder %q", interior)
	}

	dir, namePrefix, err := r.splitPrefix(prefix)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrapf(ErrNoParentPath, "pathfind: read dir %q: %v", dir, err)
	}

	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		middle := name[len(namePrefix):]
		if len(middle) < len(suffix) {
			continue
		}
		middle = middle[:len(middle)-len(suffix)]
		if !userRE.MatchString(middle) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", eris.Wrapf(err, "pathfind: stat %q", name)
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, name),
			name:    name,
			modTime: info.ModTime(),
			size:    info.Size(),
		})
	}

	if len(candidates) == 0 {
		return "", eris.Wrapf(ErrNoMatch, "pathfind: pattern %q in %q", pattern, dir)
	}

	// Newest first; stable so equal mtimes keep directory listing order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	if len(candidates) > 1 && tied(candidates[0], candidates[1]) {
		return "", eris.Wrapf(ErrAmbiguousMatch, "pathfind: %q and %q", candidates[0].name, candidates[1].name)
	}

	best := candidates[0]
	zap.L().Debug("resolved path pattern",
		zap.String("pattern", pattern),
		zap.String("path", best.path),
		zap.Int("candidates", len(candidates)),
	)
	return best.path, nil
}

// tied reports whether two candidates are indistinguishable across all three
// comparison keys.
func tied(a, b candidate) bool {
	return a.modTime.Equal(b.modTime) &&
		strings.EqualFold(a.name, b.name) &&
		a.size == b.size
}

// absolutize resolves a literal path against BaseDir without checking that
// it exists.
func (r *Resolver) absolutize(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	base, err := r.BaseDir()
	if err != nil {
		return "", eris.Wrap(err, "pathfind: base directory")
	}
	return filepath.Join(base, path), nil
}

// splitPrefix separates the directory to scan from the filename prefix
// candidates must start with.
func (r *Resolver) splitPrefix(prefix string) (dir, namePrefix string, err error) {
	abs := prefix
	if !filepath.IsAbs(abs) {
		base, err := r.BaseDir()
		if err != nil {
			return "", "", eris.Wrap(err, "pathfind: base directory")
		}
		if prefix == "" {
			return base, "", nil
		}
		abs = filepath.Join(base, prefix)
	}

	// A prefix ending in a separator names the directory itself and leaves
	// the whole filename to the regex.
	if strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, string(os.PathSeparator)) {
		return filepath.Clean(abs), "", nil
	}

	dir = filepath.Dir(abs)
	if dir == abs {
		return "", "", eris.Wrapf(ErrNoParentPath, "pathfind: prefix %q", prefix)
	}
	return dir, filepath.Base(abs), nil
}
