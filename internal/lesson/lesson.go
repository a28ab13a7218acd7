package lesson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/models"
)

// sourceCard is the raw on-disk record. Older lesson files use
// word/translation/meaning/definition instead of question/answer; the
// ambiguity is resolved exactly once here, at the boundary.
type sourceCard struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Meaning     string `json:"meaning"`
	Definition  string `json:"definition"`
}

// Loader reads lesson source files from a directory. One lesson is one
// <lessonID>.json file holding an array of card records.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// List returns the lesson ids available in the source directory.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read lessons dir %s: %w", l.dir, err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// Load reads and normalizes the source cards for one lesson. Malformed
// individual cards are excluded from the result and reported in the second
// return value; a missing or unparsable file is a LoadError.
func (l *Loader) Load(lessonID string) ([]models.Card, []error, error) {
	path := filepath.Join(l.dir, lessonID+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewLoadError(lessonID, err)
	}
	defer f.Close()
	return Parse(f, lessonID)
}

// Parse decodes a lesson card list and resolves legacy field names. Cards
// that end up without a usable question or answer are rejected one by one,
// never silently coerced.
func Parse(r io.Reader, lessonID string) ([]models.Card, []error, error) {
	var raw []sourceCard
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, errors.NewLoadError(lessonID, err)
	}

	cards := make([]models.Card, 0, len(raw))
	var rejected []error
	seen := make(map[string]bool, len(raw))

	for i, src := range raw {
		card, err := normalize(src, i)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		if seen[card.ID] {
			rejected = append(rejected, errors.NewMalformedCardError(card.ID, "duplicate card id"))
			continue
		}
		seen[card.ID] = true
		cards = append(cards, card)
	}
	return cards, rejected, nil
}

// normalize resolves the legacy field fallbacks for one record. The
// resolution order is fixed: question falls back to word, answer falls back
// to translation, then meaning, then definition.
func normalize(src sourceCard, index int) (models.Card, error) {
	id := strings.TrimSpace(src.ID)
	if id == "" {
		return models.Card{}, errors.NewMalformedCardError(
			fmt.Sprintf("#%d", index), "missing id")
	}

	question := firstNonEmpty(src.Question, src.Word)
	if question == "" {
		return models.Card{}, errors.NewMalformedCardError(id,
			"no question content (tried question, word)")
	}

	answer := firstNonEmpty(src.Answer, src.Translation, src.Meaning, src.Definition)
	if answer == "" {
		return models.Card{}, errors.NewMalformedCardError(id,
			"no answer content (tried answer, translation, meaning, definition)")
	}

	return models.Card{ID: id, Question: question, Answer: answer}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
