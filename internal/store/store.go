// Package store provides loading of category keyword rules from disk.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/internal/fileutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is the file consulted when no explicit path is configured.
const DefaultCategoriesFile = "categories.json"

// CategoryStore manages loading of category configuration data.
// Rules are loaded once per run and treated as immutable afterwards.
type CategoryStore struct {
	CategoriesFile string
	log            logging.Logger
}

// NewCategoryStore creates a new store for category rules.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		log:            logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "bank-analyzer", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads category rules from the configured file.
//
// The primary format is a JSON object mapping category name to a list of
// keywords; rule order follows the order of keys in the file. Files with a
// .yaml/.yml extension are parsed in the categories-list YAML format instead.
// A missing file yields an empty rule set, not an error, so extraction still
// runs and every record lands in the uncategorized sentinel.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = DefaultCategoriesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("Categories file not found, using empty rule set",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return []models.CategoryConfig{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var categories []models.CategoryConfig
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		categories, err = parseYAMLCategories(data)
	default:
		categories, err = parseJSONCategories(data)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.log.Debug("Loaded category rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return categories, nil
}

// parseJSONCategories decodes a {"Category": ["keyword", ...]} object while
// preserving key order. A plain json.Unmarshal into a map would lose the
// order, and first-match-wins categorization depends on it.
func parseJSONCategories(data []byte) ([]models.CategoryConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var categories []models.CategoryConfig
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected category name, got %v", keyTok)
		}

		var keywords []string
		if err := dec.Decode(&keywords); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}

		categories = append(categories, models.CategoryConfig{
			Name:     name,
			Keywords: keywords,
		})
	}

	return categories, nil
}

// parseYAMLCategories accepts either the categories-list format
// ("categories: [{name, keywords}, ...]") or a direct list of entries.
func parseYAMLCategories(data []byte) ([]models.CategoryConfig, error) {
	var config models.CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Categories) > 0 {
		return config.Categories, nil
	}

	var categories []models.CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
