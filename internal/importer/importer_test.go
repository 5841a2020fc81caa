package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/pkg/models"
)

type memWordStore struct {
	words   map[string]models.Word
	created int
	updated int
}

func newMemWordStore() *memWordStore {
	return &memWordStore{words: make(map[string]models.Word)}
}

func (s *memWordStore) GetByID(_ context.Context, id string) (*models.Word, error) {
	word, ok := s.words[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := word
	return &copied, nil
}

func (s *memWordStore) Create(_ context.Context, word *models.Word) error {
	s.words[word.ID] = *word
	s.created++
	return nil
}

func (s *memWordStore) Update(_ context.Context, word *models.Word) error {
	s.words[word.ID] = *word
	s.updated++
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFromCSVCreatesWords(t *testing.T) {
	store := newMemWordStore()
	cfg := DefaultConfig()
	cfg.FilePath = writeCSV(t,
		"id,word,phonetic,pos,definition,level,unit,example_en,example_cn\n"+
			"apple-1,apple,/ˈæpl/,n.,苹果,junior,1,I ate an apple.,我吃了一个苹果。\n"+
			",Sky Blue,,adj.,天蓝色,senior,3,,\n")

	result, err := ImportWords(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	apple := store.words["apple-1"]
	assert.Equal(t, "apple", apple.Text)
	assert.Equal(t, "/ˈæpl/", apple.Phonetic)
	require.Len(t, apple.Meanings, 1)
	assert.Equal(t, "n.", apple.Meanings[0].Pos)
	assert.Equal(t, "苹果", apple.Meanings[0].Definition)
	assert.Equal(t, models.LevelJunior, apple.Level)
	assert.Equal(t, 1, apple.Unit)
	require.Len(t, apple.Examples, 1)
	assert.Equal(t, "I ate an apple.", apple.Examples[0].En)
	assert.Equal(t, "我吃了一个苹果。", apple.Examples[0].Cn)

	// missing id falls back to the slugified word text
	sky, ok := store.words["sky-blue"]
	require.True(t, ok)
	assert.Equal(t, models.LevelSenior, sky.Level)
	assert.Empty(t, sky.Examples)
}

func TestImportUpdatesExistingWords(t *testing.T) {
	store := newMemWordStore()
	require.NoError(t, store.Create(context.Background(), &models.Word{ID: "apple-1", Text: "apple"}))
	store.created = 0

	cfg := DefaultConfig()
	cfg.FilePath = writeCSV(t,
		"id,word,phonetic,pos,definition,level,unit,example_en,example_cn\n"+
			"apple-1,apple,,n.,苹果（新释义）,junior,2,,\n")

	result, err := ImportWords(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)
	assert.Equal(t, "苹果（新释义）", store.words["apple-1"].Meanings[0].Definition)
	assert.Equal(t, 2, store.words["apple-1"].Unit)
}

func TestImportSkipsAndReportsBadRows(t *testing.T) {
	store := newMemWordStore()
	cfg := DefaultConfig()
	cfg.FilePath = writeCSV(t,
		"id,word,phonetic,pos,definition,level,unit,example_en,example_cn\n"+
			",,,,,,,,\n"+
			"w1,banana,,n.,,junior,1,,\n"+
			"w2,cherry,,n.,樱桃,expert,1,,\n"+
			"w3,date,,n.,枣,junior,1,,\n")

	result, err := ImportWords(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 1, result.Skipped, "blank word rows are skipped, not errors")
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "definition")
	assert.Contains(t, result.Errors[1], "level")
}

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		column string
		index  int
	}{
		{"A", 0},
		{"b", 1},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.index, columnToIndex(tt.column), "column %q", tt.column)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, models.LevelJunior, level)

	level, err = parseLevel("Senior")
	require.NoError(t, err)
	assert.Equal(t, models.LevelSenior, level)

	_, err = parseLevel("phd")
	assert.Error(t, err)
}
