package catalogue

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"weekly-meal-planner/internal/meal"
)

// ErrUnsupportedFormat is returned by ReadFile for extensions it cannot parse.
var ErrUnsupportedFormat = errors.New("unsupported catalogue file format")

// ReadFile loads catalogue rows from a .csv, .yaml/.yml or .json file.
func ReadFile(path string) ([]meal.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses a CSV with a header row naming item_name, category, ingredients and,
// optionally, notes. Column order is free.
func ReadCSV(r io.Reader) ([]meal.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"item_name", "category", "ingredients"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []meal.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, meal.Row{
			ItemName:    field(record, "item_name"),
			Category:    field(record, "category"),
			Ingredients: field(record, "ingredients"),
			Notes:       field(record, "notes"),
		})
	}
	return rows, nil
}

// yamlIngredients accepts either "a, b, c" or a YAML sequence.
type yamlIngredients string

func (y *yamlIngredients) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*y = yamlIngredients(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*y = yamlIngredients(strings.Join(items, ", "))
		return nil
	default:
		return fmt.Errorf("line %d: ingredients must be a string or a list", node.Line)
	}
}

type yamlMeal struct {
	ItemName    string          `yaml:"item_name"`
	Category    string          `yaml:"category"`
	Ingredients yamlIngredients `yaml:"ingredients"`
	Notes       string          `yaml:"notes"`
}

type yamlCatalogue struct {
	Meals []yamlMeal `yaml:"meals"`
}

// ReadYAML parses a document of the form `meals: [{item_name, category, ingredients, notes}]`.
func ReadYAML(r io.Reader) ([]meal.Row, error) {
	var doc yamlCatalogue
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode yaml catalogue: %w", err)
	}
	rows := make([]meal.Row, 0, len(doc.Meals))
	for _, m := range doc.Meals {
		rows = append(rows, meal.Row{
			ItemName:    m.ItemName,
			Category:    m.Category,
			Ingredients: string(m.Ingredients),
			Notes:       m.Notes,
		})
	}
	return rows, nil
}

// ReadJSON parses a JSON array of catalogue rows.
func ReadJSON(r io.Reader) ([]meal.Row, error) {
	var rows []meal.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode json catalogue: %w", err)
	}
	return rows, nil
}
