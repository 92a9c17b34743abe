package usecase

import (
	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

// DefaultCategory is returned with confidence 0.5 when the corpus has no
// categories at all.
const DefaultCategory = "pulling_guard"

// SimilarityClassifier is a nearest-neighbor classifier: the winning
// category is the one whose best example has the highest cosine similarity
// to the query. It has no learned decision boundary and never fails — every
// query receives a category and a confidence.
type SimilarityClassifier struct {
	defaultCategory string
}

func NewSimilarityClassifier(defaultCategory string) *SimilarityClassifier {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &SimilarityClassifier{defaultCategory: defaultCategory}
}

// Classify scores the query against every category and returns the winner
// with a confidence in [0, 1]. Equal top scores go to the category seen
// first in corpus order; this tie-break is an explicit policy, not an
// accident of map iteration.
func (s *SimilarityClassifier) Classify(query entity.Fingerprint, corpus *entity.TrainingCorpus) (string, float64) {
	if corpus == nil || corpus.CategoryCount() == 0 {
		return s.defaultCategory, 0.5
	}

	winner := ""
	winnerPct := -1.0
	for _, category := range corpus.Categories {
		pct := maxSimilarityPercent(query, category.Examples)
		if pct > winnerPct {
			winnerPct = pct
			winner = category.Name
		}
	}

	return winner, winnerPct / 100
}

// maxSimilarityPercent rescales cosine similarity from [-1, 1] to a [0, 100]
// percentage and keeps the best example's score. An empty example list
// scores 0.
func maxSimilarityPercent(query entity.Fingerprint, examples []entity.Example) float64 {
	maxPct := 0.0
	for _, example := range examples {
		pct := (entity.CosineSimilarity(query, example.Fingerprint) + 1) * 50
		if pct > maxPct {
			maxPct = pct
		}
	}
	return maxPct
}
