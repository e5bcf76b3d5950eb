package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
)

// Loader reads sales files from disk.
type Loader struct {
	// MaxFileSize rejects larger files; zero or less means
	// constants.DefaultMaxFileSizeBytes.
	MaxFileSize int64
}

// LoadTable loads the CSV or Excel file at path with default limits.
func LoadTable(path string) (*Table, error) {
	return Loader{}.Load(path)
}

// Load reads the file at path, choosing the reader from its extension.
// Every failure is a *DataFormatError.
func (l Loader) Load(path string) (*Table, error) {
	maxSize := l.MaxFileSize
	if maxSize <= 0 {
		maxSize = constants.DefaultMaxFileSizeBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, formatError(path, "file not found", err)
		}
		return nil, formatError(path, "file is unreadable", err)
	}
	if info.IsDir() {
		return nil, formatError(path, "path is a directory", nil)
	}
	if info.Size() > maxSize {
		return nil, formatError(path, fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), maxSize), nil)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, formatError(path, "file is unreadable", err)
	}
	defer file.Close()

	return ReadTable(file, path)
}

// ReadTable parses CSV data from r. source names the input in errors.
func ReadTable(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, formatError(source, "malformed CSV", err)
	}
	return normalize(records, source, datetime.ParseDayFirst)
}
