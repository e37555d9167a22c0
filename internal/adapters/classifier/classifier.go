// Package classifier provides the todo title categorizer: a multinomial
// naive Bayes model over title tokens, loaded once from the packaged model
// artifact. The loaded model is read-only and safe for concurrent use.
package classifier

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"sharedtodo/internal/domain"
)

//go:embed model.json
var modelData []byte

// modelFile is the on-disk format of the packaged model artifact.
type modelFile struct {
	Classes []modelClass `json:"classes"`
}

type modelClass struct {
	Name   string         `json:"name"`
	Count  int            `json:"count"`
	Tokens map[string]int `json:"tokens"`
}

type class struct {
	name     string
	logPrior float64
	tokens   map[string]int
	total    int
}

type bayesClassifier struct {
	classes   []class
	vocabSize int
}

// New loads the packaged model artifact and returns the classifier.
func New() (domain.Classifier, error) {
	return load(modelData)
}

func load(data []byte) (domain.Classifier, error) {
	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(file.Classes) == 0 {
		return nil, errors.New("model artifact contains no classes")
	}

	totalDocs := 0
	vocab := make(map[string]struct{})
	for _, c := range file.Classes {
		if c.Name == "" {
			return nil, errors.New("model artifact contains an unnamed class")
		}
		if c.Count <= 0 {
			return nil, fmt.Errorf("class %q has non-positive document count", c.Name)
		}
		totalDocs += c.Count
		for token := range c.Tokens {
			vocab[token] = struct{}{}
		}
	}

	m := &bayesClassifier{vocabSize: len(vocab)}
	for _, c := range file.Classes {
		total := 0
		for _, n := range c.Tokens {
			total += n
		}
		m.classes = append(m.classes, class{
			name:     c.Name,
			logPrior: math.Log(float64(c.Count) / float64(totalDocs)),
			tokens:   c.Tokens,
			total:    total,
		})
	}
	return m, nil
}

// PredictClass returns the class with the highest posterior for the title's
// tokens. Unknown tokens fall through to Laplace smoothing, so prediction is
// total and deterministic.
func (m *bayesClassifier) PredictClass(title string) (string, error) {
	tokens := tokenize(title)

	best := ""
	bestScore := math.Inf(-1)
	for _, c := range m.classes {
		score := c.logPrior
		for _, token := range tokens {
			count := c.tokens[token]
			score += math.Log(float64(count+1) / float64(c.total+m.vocabSize))
		}
		if score > bestScore {
			bestScore = score
			best = c.name
		}
	}
	return best, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
