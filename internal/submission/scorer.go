package submission

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jonathan/autoapply/internal/optimize"
	"github.com/jonathan/autoapply/internal/types"
)

// Scorer assigns an optimization score to a resume for a job.
type Scorer interface {
	Score(resume *types.ResumeDocument, jobDescription string) int
}

// Score bounds shared by the scorers.
const (
	MinRandomScore  = 80
	MaxRandomScore  = 99
	MinKeywordScore = 50
)

// RandomScorer returns a uniformly distributed score in [80, 99]. It is the
// placeholder score shown until a real scoring function is configured.
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScorer creates a RandomScorer. A zero seed uses the clock.
func NewRandomScorer(seed int64) *RandomScorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomScorer{rng: rand.New(rand.NewSource(seed))}
}

// Score implements Scorer.
func (s *RandomScorer) Score(_ *types.ResumeDocument, _ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinRandomScore + s.rng.Intn(MaxRandomScore-MinRandomScore+1)
}

// KeywordScorer scores by the share of job-description keywords that appear
// in the resume text, mapped onto [50, 99].
type KeywordScorer struct{}

// Score implements Scorer.
func (KeywordScorer) Score(resume *types.ResumeDocument, jobDescription string) int {
	keywords := Keywords(jobDescription)
	if len(keywords) == 0 {
		return MinKeywordScore
	}

	resumeWords := map[string]bool{}
	for _, w := range tokenize(optimize.RenderText(resume)) {
		resumeWords[w] = true
	}

	matched := 0
	for _, k := range keywords {
		if resumeWords[k] {
			matched++
		}
	}
	return MinKeywordScore + matched*(MaxRandomScore-MinKeywordScore)/len(keywords)
}

var stopwords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true, "our": true,
	"are": true, "will": true, "this": true, "that": true, "from": true, "have": true,
	"your": true, "who": true, "can": true, "all": true, "role": true, "work": true,
	"years": true, "experience": true, "team": true, "about": true, "into": true,
}

// Keywords returns the distinct lowercase words of text worth matching, in
// order of first appearance.
func Keywords(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range tokenize(text) {
		if len(w) < 2 || stopwords[w] || seen[w] {
			continue
		}
		if len(w) < 3 && !strings.ContainsAny(w, "0123456789+#") && w != "go" {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
