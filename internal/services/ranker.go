package services

import (
	"math"
	"sort"

	"careerpilot/career-audit/internal/models"
)

// MatchLimit caps how many results one ranking operation returns.
const MatchLimit = 20

// RankCandidate pairs a job id with its embedding for ranking.
type RankCandidate struct {
	ID     string
	Vector []float32
}

// CosineSimilarity returns dot(a,b) / (‖a‖·‖b‖). Mismatched lengths,
// zero-length vectors and zero-magnitude vectors all score exactly 0; the
// raw formula would divide by zero, so the guard is explicit.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}
	return dot / denominator
}

// Rank scores every candidate against the query vector and returns the top
// matches in descending score order, capped at MatchLimit. Scores are
// rounded to 4 decimals; ties keep the candidates' input order. Pure
// function, no I/O.
func Rank(query []float32, candidates []RankCandidate) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		score := CosineSimilarity(query, candidate.Vector)
		results = append(results, models.MatchResult{
			JobID: candidate.ID,
			Score: math.Round(score*10000) / 10000,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MatchLimit {
		results = results[:MatchLimit]
	}
	return results
}
