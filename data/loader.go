// Package data holds the harness's embedded data files and the JSON/YAML parser used to read
// them and any user-supplied files.
package data

import (
	"embed"
	"fmt"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

// ResponsesFile is the name of the embedded file that holds the default canned responses of the
// mock media manager API.
const ResponsesFile = "responses.yaml"

// LoadDataFile reads an embedded data file. The path is relative to data/data-files.
func LoadDataFile(path string) ([]byte, error) {
	data, err := dataFilesRoot.ReadFile(dataBasePath + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}
