package transfer

import (
	"fmt"
	"os"
)

// DataExporter hands out the persisted document bytes
type DataExporter interface {
	ExportData() (string, error)
}

// DataImporter replaces the document from persisted bytes
type DataImporter interface {
	ImportData(payload, password string) error
}

// ExportFile writes the persisted document to path. The file may contain
// secrets in encrypted form, so it is created with owner-only permissions.
func ExportFile(src DataExporter, path string) error {
	data, err := src.ExportData()
	if err != nil {
		return err
	}
	if data == "" {
		return fmt.Errorf("nothing to export")
	}
	return os.WriteFile(path, []byte(data), 0600)
}

// ImportFile reads a file written by ExportFile and imports it
func ImportFile(dst DataImporter, path, password string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return dst.ImportData(string(data), password)
}
