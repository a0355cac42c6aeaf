package export

import (
	"encoding/json"
	"os"

	"github.com/dshills/dungeonkeep/pkg/dungeon"
)

// ExportJSON serializes artifact as indented JSON.
func ExportJSON(artifact *dungeon.Artifact) ([]byte, error) {
	return json.MarshalIndent(artifact, "", "  ")
}

// ExportJSONCompact serializes artifact as compact JSON.
func ExportJSONCompact(artifact *dungeon.Artifact) ([]byte, error) {
	return json.Marshal(artifact)
}

// SaveJSONToFile writes artifact's indented JSON encoding to path.
func SaveJSONToFile(artifact *dungeon.Artifact, path string) error {
	data, err := ExportJSON(artifact)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// SaveJSONCompactToFile writes artifact's compact JSON encoding to path.
func SaveJSONCompactToFile(artifact *dungeon.Artifact, path string) error {
	data, err := ExportJSONCompact(artifact)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// writeFile is the shared 0644 file-write used by every Save*ToFile
// function in this package.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
