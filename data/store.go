// Package data provides the test-data keywords: loading fixtures from JSON,
// YAML and CSV files with an in-memory cache, and generating realistic fake
// records for tests that need fresh data.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/qaengine/webtest-harness/framework"
)

// Store loads fixture files from a base directory. Loaded data can be cached
// under a caller-chosen key for reuse across keywords within a test.
type Store struct {
	dir    string
	logger framework.Logger
	cache  map[string]interface{}
}

func NewStore(dir string, logger framework.Logger) *Store {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Store{dir: dir, logger: logger, cache: make(map[string]interface{})}
}

// LoadJSON reads a JSON file and returns its contents. cacheKey may be empty.
func (s *Store) LoadJSON(filename, cacheKey string) (ldvalue.Value, error) {
	data, err := s.read(filename)
	if err != nil {
		return ldvalue.Null(), err
	}
	v := ldvalue.Parse(data)
	if v.IsNull() {
		return ldvalue.Null(), fmt.Errorf("file %s does not contain valid JSON", filename)
	}
	s.put(cacheKey, v)
	s.logger.Printf("loaded JSON data from %s", filename)
	return v, nil
}

// LoadYAML reads a YAML file into a generic map. cacheKey may be empty.
func (s *Store) LoadYAML(filename, cacheKey string) (map[string]interface{}, error) {
	data, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("could not parse YAML file %s: %w", filename, err)
	}
	s.put(cacheKey, out)
	s.logger.Printf("loaded YAML data from %s", filename)
	return out, nil
}

// LoadCSV reads a CSV file with a header row and returns one map per data
// row, keyed by column name. cacheKey may be empty.
func (s *Store) LoadCSV(filename, cacheKey string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("could not open CSV file %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV file %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s has no header row", filename)
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	s.put(cacheKey, rows)
	s.logger.Printf("loaded CSV data from %s (%d rows)", filename, len(rows))
	return rows, nil
}

// Cached returns data previously stored under the key.
func (s *Store) Cached(key string) (interface{}, bool) {
	v, ok := s.cache[key]
	return v, ok
}

// ClearCache drops all cached data.
func (s *Store) ClearCache() {
	s.cache = make(map[string]interface{})
}

func (s *Store) read(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("could not read data file %s: %w", filename, err)
	}
	return data, nil
}

func (s *Store) put(key string, v interface{}) {
	if key != "" {
		s.cache[key] = v
	}
}
