package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"careerpilot/career-audit/internal/models"
)

// EmbeddingIndexer derives the vectors used for semantic matching: one for
// the normalized profile summary, one per job candidate. A zero-length
// vector marks an individual embedding failure and never aborts a batch.
type EmbeddingIndexer interface {
	EmbedProfileSummary(ctx context.Context, audit *models.AuditResult, targetRole string) []float32
	EmbedJobs(ctx context.Context, jobs []models.JobCandidate) [][]float32
}

type embeddingIndexer struct {
	inference   InferenceService
	concurrency int
}

func NewEmbeddingIndexer(inference InferenceService, concurrency int) EmbeddingIndexer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &embeddingIndexer{
		inference:   inference,
		concurrency: concurrency,
	}
}

// BuildProfileSummary joins skill categories, skill gaps and the target
// role into the text blob the profile embedding is derived from.
func BuildProfileSummary(audit *models.AuditResult, targetRole string) string {
	categories := make([]string, 0, len(audit.SkillMap))
	for category := range audit.SkillMap {
		categories = append(categories, category)
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s %s",
		strings.Join(categories, ", "),
		strings.Join(audit.SkillGaps, ", "),
		targetRole))
}

// BuildJobText is the per-job comparison blob.
func BuildJobText(job models.JobCandidate) string {
	return fmt.Sprintf("%s at %s. %s", job.Title, job.Company, job.Description)
}

// EmbedProfileSummary implements EmbeddingIndexer.
func (e *embeddingIndexer) EmbedProfileSummary(ctx context.Context, audit *models.AuditResult, targetRole string) []float32 {
	return e.inference.Embed(ctx, BuildProfileSummary(audit, targetRole))
}

// EmbedJobs implements EmbeddingIndexer. Jobs are embedded independently
// through a bounded worker pool; slot i of the result always corresponds to
// jobs[i], and a failed embedding leaves a zero-length vector in its slot.
func (e *embeddingIndexer) EmbedJobs(ctx context.Context, jobs []models.JobCandidate) [][]float32 {
	vectors := make([][]float32, len(jobs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job models.JobCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vectors[i] = e.inference.Embed(ctx, BuildJobText(job))
		}(i, job)
	}

	wg.Wait()
	return vectors
}
