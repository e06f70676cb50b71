// Package importer turns flashcard-style CSV exports into Question Bank items.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"linguaquiz/internal/models"
	"linguaquiz/internal/random"

	"github.com/google/uuid"
)

// ErrUnrecognizedHeader means no question or answer column could be found
var ErrUnrecognizedHeader = errors.New("csv header needs a question column and an answer column")

const maxDistractors = 3

var (
	textColumns        = []string{"front", "question", "term", "prompt"}
	answerColumns      = []string{"back", "answer", "definition", "translation"}
	tagColumns         = []string{"category", "tag", "tags", "topic"}
	explanationColumns = []string{"explanation", "notes", "note", "example"}
	difficultyColumns  = []string{"difficulty", "level"}
)

// SkippedRow is a data row that could not become a question
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Questions []models.Question `json:"questions"`
	Skipped   []SkippedRow      `json:"skipped"`
}

type Options struct {
	Source random.Source
	Now    func() time.Time
	NewID  func() string
}

type Importer struct {
	src   random.Source
	now   func() time.Time
	newID func() string
}

func New(opts Options) *Importer {
	im := &Importer{src: opts.Source, now: opts.Now, newID: opts.NewID}
	if im.src == nil {
		im.src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if im.now == nil {
		im.now = time.Now
	}
	if im.newID == nil {
		im.newID = uuid.NewString
	}
	return im
}

type columns struct {
	text, answer, tags, explanation, difficulty int
}

type row struct {
	line                      int
	text, answer, explanation string
	tags                      []string
	difficulty                models.Difficulty
}

// Import reads a CSV whose first row is a header. Each data row with a
// question and an answer becomes one question whose options are the answer
// plus up to three other rows' answers. Other rows are reported as skipped.
func (im *Importer) Import(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrUnrecognizedHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse the CSV header: %w", err)
	}
	cols := locate(header)
	if cols.text < 0 || cols.answer < 0 {
		return nil, fmt.Errorf("%w (got %s)", ErrUnrecognizedHeader, strings.Join(header, ", "))
	}

	res := &Result{Questions: []models.Question{}, Skipped: []SkippedRow{}}
	var rows []row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse the CSV file: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rw := row{
			line:        line,
			text:        cell(record, cols.text),
			answer:      cell(record, cols.answer),
			explanation: cell(record, cols.explanation),
			tags:        splitTags(cell(record, cols.tags)),
			difficulty:  models.Difficulty(strings.ToLower(cell(record, cols.difficulty))),
		}
		switch {
		case rw.text == "" && rw.answer == "":
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "empty row"})
		case rw.text == "":
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "missing question text"})
		case rw.answer == "":
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "missing answer"})
		default:
			rows = append(rows, rw)
		}
	}

	for i, rw := range rows {
		res.Questions = append(res.Questions, im.build(rw, otherAnswers(rows, i)))
	}
	return res, nil
}

func (im *Importer) build(rw row, pool []string) models.Question {
	random.Shuffle(im.src, len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > maxDistractors {
		pool = pool[:maxDistractors]
	}
	options := append([]string{rw.answer}, pool...)
	random.Shuffle(im.src, len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	tags := rw.tags
	if len(tags) == 0 {
		tags = []string{"imported"}
	}
	q := models.Question{
		ID:            im.newID(),
		Text:          rw.text,
		Options:       options,
		CorrectAnswer: rw.answer,
		Explanation:   rw.explanation,
		Tags:          tags,
		CreatedAt:     im.now(),
	}
	if rw.difficulty.Valid() {
		q.Difficulty = rw.difficulty
	}
	return q
}

// otherAnswers lists the distinct answers of every row but rows[skip],
// excluding any equal to that row's own answer
func otherAnswers(rows []row, skip int) []string {
	own := rows[skip].answer
	seen := map[string]struct{}{own: {}}
	var out []string
	for i, rw := range rows {
		if i == skip {
			continue
		}
		if _, dup := seen[rw.answer]; dup {
			continue
		}
		seen[rw.answer] = struct{}{}
		out = append(out, rw.answer)
	}
	return out
}

func locate(header []string) columns {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	find := func(candidates []string) int {
		for _, c := range candidates {
			for i, n := range names {
				if n == c {
					return i
				}
			}
		}
		return -1
	}
	return columns{
		text:        find(textColumns),
		answer:      find(answerColumns),
		tags:        find(tagColumns),
		explanation: find(explanationColumns),
		difficulty:  find(difficultyColumns),
	}
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func splitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' })
	var tags []string
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
