// Package importer loads vocabulary words into the catalog from Excel or
// CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/pkg/models"
)

// WordStore is the catalog surface the importer writes to.
type WordStore interface {
	GetByID(ctx context.Context, id string) (*models.Word, error)
	Create(ctx context.Context, word *models.Word) error
	Update(ctx context.Context, word *models.Word) error
}

// Config defines the import configuration. Columns are Excel-style letters;
// the same positions apply to CSV fields.
type Config struct {
	FilePath         string
	SheetName        string
	StartRow         int // 1-based first data row
	IDColumn         string
	WordColumn       string
	PhoneticColumn   string
	PosColumn        string
	DefinitionColumn string
	LevelColumn      string
	UnitColumn       string
	ExampleEnColumn  string
	ExampleCnColumn  string
}

// DefaultConfig returns the default column layout: id, word, phonetic, part
// of speech, definition, level, unit, example, example translation.
func DefaultConfig() Config {
	return Config{
		SheetName:        "Sheet1",
		StartRow:         2, // skip the header row
		IDColumn:         "A",
		WordColumn:       "B",
		PhoneticColumn:   "C",
		PosColumn:        "D",
		DefinitionColumn: "E",
		LevelColumn:      "F",
		UnitColumn:       "G",
		ExampleEnColumn:  "H",
		ExampleCnColumn:  "I",
	}
}

// Result holds the outcome of an import operation.
type Result struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file into the store.
func ImportWords(ctx context.Context, store WordStore, config Config) (*Result, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(ctx, store, config)
	}
	return importFromExcel(ctx, store, config)
}

func importFromExcel(ctx context.Context, store WordStore, config Config) (*Result, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, store, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func importFromCSV(ctx context.Context, store WordStore, config Config) (*Result, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &Result{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, store, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow validates one row and creates or updates the catalog word.
func processRow(ctx context.Context, store WordStore, row []string, config Config, result *Result) error {
	cell := func(column string) string {
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	text := cell(config.WordColumn)
	definition := cell(config.DefinitionColumn)
	if text == "" {
		result.Skipped++
		return nil
	}
	if definition == "" {
		return fmt.Errorf("definition cannot be empty")
	}

	level, err := parseLevel(cell(config.LevelColumn))
	if err != nil {
		return err
	}

	id := cell(config.IDColumn)
	if id == "" {
		id = strings.ToLower(strings.ReplaceAll(text, " ", "-"))
	}

	word := &models.Word{
		ID:       id,
		Text:     text,
		Phonetic: cell(config.PhoneticColumn),
		Meanings: []models.WordMeaning{{
			Pos:        cell(config.PosColumn),
			Definition: definition,
		}},
		Examples: []models.Example{},
		Level:    level,
		Unit:     parseIntOrDefault(cell(config.UnitColumn), 0),
	}
	if en := cell(config.ExampleEnColumn); en != "" {
		word.Examples = append(word.Examples, models.Example{
			En: en,
			Cn: cell(config.ExampleCnColumn),
		})
	}

	existing, err := store.GetByID(ctx, id)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up word: %v", err)
	}
	if existing != nil {
		if err := store.Update(ctx, word); err != nil {
			return fmt.Errorf("failed to update word: %v", err)
		}
		result.Updated++
		return nil
	}
	if err := store.Create(ctx, word); err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	result.Created++
	return nil
}

func parseLevel(s string) (models.WordLevel, error) {
	switch strings.ToLower(s) {
	case "", "junior":
		return models.LevelJunior, nil
	case "senior":
		return models.LevelSenior, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// columnToIndex converts an Excel column letter to a 0-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

func parseIntOrDefault(s string, defaultVal int) int {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil || val < 0 {
		return defaultVal
	}
	return val
}
