package sheet

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// unzipSingle returns the name and contents of the one spreadsheet member
// (.xlsx or .csv) of a ZIP archive. Directories and other members are ignored.
func unzipSingle(b []byte) (string, []byte, error) {
	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open archive")
	}

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xlsx", ".csv":
			files = append(files, f)
		}
	}
	if len(files) != 1 {
		return "", nil, eris.Errorf("zip: expected exactly 1 spreadsheet, got %d", len(files))
	}

	rc, err := files[0].Open()
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: read entry")
	}
	return path.Base(files[0].Name), data, nil
}
