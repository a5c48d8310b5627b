package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/career-audit/internal/models"
)

// scriptedEmbedder lets a test choose the vector per input text.
type scriptedEmbedder struct {
	embed func(text string) []float32
}

func (s *scriptedEmbedder) GenerateStructured(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *scriptedEmbedder) Embed(_ context.Context, text string) []float32 {
	return s.embed(text)
}

func TestBuildJobText(t *testing.T) {
	job := models.JobCandidate{
		ID:          "j1",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Build APIs in Go.",
	}

	assert.Equal(t, "Backend Engineer at Acme. Build APIs in Go.", BuildJobText(job))
}

func TestBuildProfileSummary(t *testing.T) {
	audit := &models.AuditResult{
		SkillMap:  map[string]float64{"Backend": 80},
		SkillGaps: []string{"Docker", "AWS"},
	}

	summary := BuildProfileSummary(audit, "Platform Engineer")

	assert.Contains(t, summary, "Backend")
	assert.Contains(t, summary, "Docker, AWS")
	assert.Contains(t, summary, "Platform Engineer")
}

func TestEmbedJobs(t *testing.T) {
	t.Run("slot i always holds the vector for jobs[i]", func(t *testing.T) {
		inference := &scriptedEmbedder{
			embed: func(text string) []float32 {
				switch {
				case strings.HasPrefix(text, "Alpha"):
					return []float32{1}
				case strings.HasPrefix(text, "Beta"):
					return []float32{2}
				default:
					return []float32{3}
				}
			},
		}
		indexer := NewEmbeddingIndexer(inference, 2)

		jobs := []models.JobCandidate{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
			{ID: "c", Title: "Gamma"},
		}

		vectors := indexer.EmbedJobs(context.Background(), jobs)

		require.Len(t, vectors, 3)
		assert.Equal(t, []float32{1}, vectors[0])
		assert.Equal(t, []float32{2}, vectors[1])
		assert.Equal(t, []float32{3}, vectors[2])
	})

	t.Run("one failed embedding does not abort the batch", func(t *testing.T) {
		inference := &scriptedEmbedder{
			embed: func(text string) []float32 {
				if strings.HasPrefix(text, "Bad") {
					return []float32{}
				}
				return []float32{0.5}
			},
		}
		indexer := NewEmbeddingIndexer(inference, 3)

		jobs := []models.JobCandidate{
			{ID: "good1", Title: "Fine"},
			{ID: "bad", Title: "Bad"},
			{ID: "good2", Title: "Fine too"},
		}

		vectors := indexer.EmbedJobs(context.Background(), jobs)

		require.Len(t, vectors, 3)
		assert.NotEmpty(t, vectors[0])
		assert.Empty(t, vectors[1])
		assert.NotEmpty(t, vectors[2])
	})

	t.Run("large batch with a small pool completes fully", func(t *testing.T) {
		inference := &scriptedEmbedder{
			embed: func(string) []float32 { return []float32{1, 2} },
		}
		indexer := NewEmbeddingIndexer(inference, 2)

		jobs := make([]models.JobCandidate, 50)
		vectors := indexer.EmbedJobs(context.Background(), jobs)

		require.Len(t, vectors, 50)
		for i, v := range vectors {
			assert.Len(t, v, 2, "slot %d", i)
		}
	})
}
