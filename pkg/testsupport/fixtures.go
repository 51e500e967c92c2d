package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFixture returns the raw bytes of a testdata file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes the JSON file at path into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	return nil
}
