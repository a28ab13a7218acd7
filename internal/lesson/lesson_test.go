package lesson_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/lesson"
)

func TestParse_ModernFields(t *testing.T) {
	input := `[
		{"id": "c1", "question": "dog", "answer": "der Hund"},
		{"id": "c2", "question": "cat", "answer": "die Katze"}
	]`

	cards, rejected, err := lesson.Parse(strings.NewReader(input), "animals")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, cards, 2)
	assert.Equal(t, "c1", cards[0].ID)
	assert.Equal(t, "dog", cards[0].Question)
	assert.Equal(t, "der Hund", cards[0].Answer)
}

func TestParse_LegacyFieldFallbacks(t *testing.T) {
	input := `[
		{"id": "c1", "word": "dog", "translation": "der Hund"},
		{"id": "c2", "word": "cat", "meaning": "die Katze"},
		{"id": "c3", "word": "bird", "definition": "der Vogel"}
	]`

	cards, rejected, err := lesson.Parse(strings.NewReader(input), "animals")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, cards, 3)
	assert.Equal(t, "dog", cards[0].Question)
	assert.Equal(t, "der Hund", cards[0].Answer)
	assert.Equal(t, "die Katze", cards[1].Answer)
	assert.Equal(t, "der Vogel", cards[2].Answer)
}

func TestParse_ModernFieldWinsOverLegacy(t *testing.T) {
	input := `[{"id": "c1", "question": "dog", "word": "hound", "answer": "der Hund", "translation": "old"}]`

	cards, rejected, err := lesson.Parse(strings.NewReader(input), "animals")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, cards, 1)
	assert.Equal(t, "dog", cards[0].Question)
	assert.Equal(t, "der Hund", cards[0].Answer)
}

func TestParse_RejectsMalformedCardsIndividually(t *testing.T) {
	input := `[
		{"id": "ok", "question": "dog", "answer": "der Hund"},
		{"id": "noanswer", "question": "cat"},
		{"id": "noquestion", "answer": "die Katze"},
		{"question": "bird", "answer": "der Vogel"},
		{"id": "blank", "question": "  ", "answer": "x"}
	]`

	cards, rejected, err := lesson.Parse(strings.NewReader(input), "animals")
	require.NoError(t, err)
	require.Len(t, cards, 1, "only the valid card survives")
	assert.Equal(t, "ok", cards[0].ID)

	require.Len(t, rejected, 4)
	for _, rerr := range rejected {
		assert.True(t, apperrors.IsCode(rerr, apperrors.ErrCodeMalformed))
	}
	assert.Contains(t, rejected[0].Error(), "noanswer")
	assert.Contains(t, rejected[0].Error(), "tried answer, translation, meaning, definition")
	assert.Contains(t, rejected[1].Error(), "tried question, word")
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	input := `[
		{"id": "c1", "question": "dog", "answer": "der Hund"},
		{"id": "c1", "question": "cat", "answer": "die Katze"}
	]`

	cards, rejected, err := lesson.Parse(strings.NewReader(input), "animals")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].Error(), "duplicate card id")
}

func TestParse_InvalidJSONIsLoadError(t *testing.T) {
	_, _, err := lesson.Parse(strings.NewReader(`{not json`), "broken")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLoad))
}

func TestLoad_MissingFileIsLoadError(t *testing.T) {
	loader := lesson.NewLoader(t.TempDir())
	_, _, err := loader.Load("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLoad))
}

func TestLoad_ReadsLessonFile(t *testing.T) {
	dir := t.TempDir()
	content := `[{"id": "c1", "word": "dog", "translation": "der Hund"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "animals.json"), []byte(content), 0o644))

	loader := lesson.NewLoader(dir)
	cards, rejected, err := loader.Load("animals")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, cards, 1)
	assert.Equal(t, "dog", cards[0].Question)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "animals.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "verbs.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(``), 0o644))

	loader := lesson.NewLoader(dir)
	ids, err := loader.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"animals", "verbs"}, ids)
}
