// FILE: lixenwraith/flags/io.go
package flags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Dump.
const (
	FormatFlags = "flags" // option-file lines, readable by --flagfile
	FormatTOML  = "toml"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Dump writes the current value of every flag to w. Structured formats nest
// dotted names ("server.port") into tables.
func (r *Registry) Dump(w io.Writer, format string) error {
	var data []byte
	var err error

	switch format {
	case FormatFlags:
		data = []byte(r.FlagsIntoString())
	case FormatTOML:
		var buf bytes.Buffer
		if err = toml.NewEncoder(&buf).Encode(r.nestedValues()); err == nil {
			data = buf.Bytes()
		}
	case FormatYAML:
		data, err = yaml.Marshal(r.nestedValues())
	case FormatJSON:
		data, err = json.MarshalIndent(r.nestedValues(), "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported dump format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal flags to %s: %w", format, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	return nil
}

// SaveFile atomically replaces path with the current flags, in the format
// implied by its extension; unknown extensions get option-file format.
func (r *Registry) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := r.Dump(&buf, detectFormat(path)); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatFlags
	}
}

// atomicWriteFile writes to a temporary file in the target directory and
// renames it over path.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op once renamed

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
