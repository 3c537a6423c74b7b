package matfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// Read loads the material file at path, dispatching on its extension.
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matfile: %w", err)
	}

	var rec *Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		rec, err = ParseYAML(data)
	case ".txt":
		rec, err = ParseText(data, ' ')
	case ".csv":
		rec, err = ParseText(data, ',')
	default:
		return nil, fmt.Errorf("matfile: extension %q not supported (want .yml, .yaml, .txt or .csv): %w", ext, core.ErrNotSupported)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	rec.FilePath = path
	return rec, nil
}

// headerLines returns the leading "#" lines of data without the marker.
func headerLines(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, "#") {
			break
		}
		out = append(out, line[1:])
	}
	return out
}
