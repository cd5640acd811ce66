// Package output serializes a retained table to stdout or a CSV file.
package output

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/csvsift/internal/sift"
)

// ToStdout writes the table to standard output.
func ToStdout(t *sift.Table) error {
	return write(os.Stdout, t)
}

// ToFile writes the table to path, creating missing parent directories.
func ToFile(t *sift.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "output: create parent directories")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create file")
	}
	defer f.Close()

	if err := write(f, t); err != nil {
		return err
	}
	zap.L().Info("wrote output file", zap.String("path", path), zap.Int("rows", len(t.Data)))
	return nil
}

// write emits the header record followed by every data row, and checks the
// flush. Headers are written even for an empty table.
func write(w io.Writer, t *sift.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.RetainedHeaders); err != nil {
		return eris.Wrap(err, "output: write headers")
	}
	for _, row := range t.Data {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "output: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "output: flush")
	}
	return nil
}
