package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.3, -1.2, 4.5}

		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-6)
	})

	t.Run("zero-length vector scores exactly 0", func(t *testing.T) {
		score := CosineSimilarity([]float32{}, []float32{1, 2, 3})

		assert.Equal(t, 0.0, score)
		assert.False(t, score != score, "score must not be NaN")
	})

	t.Run("length mismatch scores exactly 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("zero-magnitude vector scores exactly 0 not NaN", func(t *testing.T) {
		score := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})

		assert.Equal(t, 0.0, score)
	})
}

func TestRank(t *testing.T) {
	t.Run("sorts descending with ties keeping input order", func(t *testing.T) {
		query := []float32{1, 0, 0}
		candidates := []RankCandidate{
			{ID: "jobA", Vector: []float32{1, 0, 0}},
			{ID: "jobB", Vector: []float32{0, 1, 0}},
			{ID: "jobC", Vector: []float32{}},
		}

		results := Rank(query, candidates)

		require.Len(t, results, 3)
		assert.Equal(t, "jobA", results[0].JobID)
		assert.Equal(t, 1.0, results[0].Score)
		assert.Equal(t, "jobB", results[1].JobID)
		assert.Equal(t, 0.0, results[1].Score)
		assert.Equal(t, "jobC", results[2].JobID)
		assert.Equal(t, 0.0, results[2].Score)
	})

	t.Run("scores are rounded to 4 decimals", func(t *testing.T) {
		query := []float32{1, 1, 0}
		candidates := []RankCandidate{
			{ID: "job", Vector: []float32{1, 0, 0}},
		}

		results := Rank(query, candidates)

		// cos(45°) ≈ 0.70710678
		assert.Equal(t, 0.7071, results[0].Score)
	})

	t.Run("truncates to 20 results", func(t *testing.T) {
		query := []float32{1, 0}
		candidates := make([]RankCandidate, 1000)
		for i := range candidates {
			candidates[i] = RankCandidate{
				ID:     fmt.Sprintf("job-%d", i),
				Vector: []float32{1, float32(i) / 1000},
			}
		}

		results := Rank(query, candidates)

		assert.Len(t, results, MatchLimit)
	})

	t.Run("candidate order does not change the scored pairs", func(t *testing.T) {
		query := []float32{0.5, 0.5, 0.1}
		a := RankCandidate{ID: "a", Vector: []float32{0.4, 0.6, 0.2}}
		b := RankCandidate{ID: "b", Vector: []float32{0.9, 0.1, 0.0}}
		c := RankCandidate{ID: "c", Vector: []float32{0.1, 0.1, 0.9}}

		first := Rank(query, []RankCandidate{a, b, c})
		second := Rank(query, []RankCandidate{c, b, a})

		require.Len(t, second, 3)
		assert.ElementsMatch(t, first, second)
		for i := 1; i < len(second); i++ {
			assert.LessOrEqual(t, second[i].Score, second[i-1].Score)
		}
	})

	t.Run("empty candidate list yields empty results", func(t *testing.T) {
		assert.Empty(t, Rank([]float32{1}, nil))
	})
}
