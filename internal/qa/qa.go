// Package qa answers questions by keyword matching over document content.
// There is no retrieval model: answers are filled templates around the best
// matching document.
package qa

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
)

// NoMatchAnswer is returned, with no sources, when nothing matches.
const NoMatchAnswer = "I couldn't find any relevant information in the documents. Please try another question or upload more documents."

const excerptLen = 150

type Source struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	UploadDate time.Time `json:"uploadDate"`
}

type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Documents lists the corpus to search.
type Documents interface {
	List() []models.Document
}

type Service struct {
	docs Documents
	sim  *latency.Simulator
}

func NewService(docs Documents, sim *latency.Simulator) *Service {
	return &Service{docs: docs, sim: sim}
}

// Ask matches query against every document title and content. Documents are
// ranked by how many query keywords they contain; containing the whole query
// counts extra.
func (s *Service) Ask(ctx context.Context, query string) (Answer, error) {
	a, err := s.ask(ctx, query)
	metrics.ServiceCalls.WithLabelValues("qa", "ask", metrics.Outcome(err)).Inc()
	return a, err
}

func (s *Service) ask(ctx context.Context, query string) (Answer, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Answer{}, fmt.Errorf("%w: query is required", apperr.ErrValidation)
	}
	if err := s.sim.Wait(ctx, latency.OpAsk); err != nil {
		return Answer{}, err
	}

	terms := keywords(q)
	type hit struct {
		doc   models.Document
		score int
	}
	var hits []hit
	for _, d := range s.docs.List() {
		text := strings.ToLower(d.Title + " " + d.Content)
		score := 0
		if strings.Contains(text, q) {
			score += len(terms) + 1
		}
		for _, t := range terms {
			if strings.Contains(text, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{d, score})
		}
	}
	if len(hits) == 0 {
		logger.Debugf("qa: no match for %q", query)
		return Answer{Answer: NoMatchAnswer, Sources: []Source{}}, nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := Answer{Answer: compose(q, hits[0].doc), Sources: make([]Source, 0, len(hits))}
	for _, h := range hits {
		out.Sources = append(out.Sources, Source{
			ID:         h.doc.ID,
			Title:      h.doc.Title,
			Excerpt:    truncate(h.doc.Content, excerptLen) + "...",
			UploadDate: h.doc.UploadDate,
		})
	}
	return out, nil
}

func compose(q string, d models.Document) string {
	switch {
	case strings.Contains(q, "what") || strings.Contains(q, "how"):
		return fmt.Sprintf("Based on the %s, %s...", d.Title, truncate(d.Content, 100))
	case strings.Contains(q, "when") || strings.Contains(q, "date"):
		return fmt.Sprintf("According to %s from %s, this information was documented on that date.", d.Title, d.UploadDate.Format("2006-01-02"))
	case strings.Contains(q, "who") || strings.Contains(q, "person"):
		return fmt.Sprintf("The %s uploaded by %s indicates responsibility in this area.", d.Title, d.UploadedBy)
	default:
		return fmt.Sprintf("In the %s, I found that %s...", d.Title, truncate(d.Content, 120))
	}
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {}, "with": {},
	"what": {}, "how": {}, "when": {}, "who": {}, "why": {}, "where": {}, "which": {},
	"does": {}, "did": {}, "this": {}, "that": {}, "from": {}, "about": {}, "our": {},
	"you": {}, "your": {}, "can": {}, "tell": {}, "there": {}, "have": {}, "has": {},
}

// keywords splits q into distinct lower-case words of three or more letters,
// minus stopwords.
func keywords(q string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.FieldsFunc(q, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }) {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
