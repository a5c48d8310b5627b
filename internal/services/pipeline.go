package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"careerpilot/career-audit/internal/models"
	"careerpilot/career-audit/internal/repositories"
)

// PipelineStage names the states of one audit run. Extraction is the only
// stage whose failure is fatal besides a total audit failure; everything
// after it degrades into a field of the response.
type PipelineStage string

const (
	StageReceived      PipelineStage = "received"
	StageExtracted     PipelineStage = "extracted"
	StageEnriched      PipelineStage = "enriched"
	StageAudited       PipelineStage = "audited"
	StageEmbedded      PipelineStage = "embedded"
	StagePersisted     PipelineStage = "persisted"
	StagePersistFailed PipelineStage = "persist_failed"
	StageDone          PipelineStage = "done"
)

// PipelineTimeouts bounds every external call the pipeline makes. An
// unresponsive upstream must not stall the request indefinitely.
type PipelineTimeouts struct {
	Inference time.Duration
	Enrich    time.Duration
	Persist   time.Duration
}

// Pipeline is the orchestrator: it sequences extraction, enrichment, audit
// synthesis, embedding and persistence under the per-stage failure policy,
// and exposes the semantic matching operation.
type Pipeline interface {
	RunAudit(ctx context.Context, doc Document, githubURL, targetRole string, identity models.Identity) (*models.AuditResponse, error)
	MatchJobs(ctx context.Context, resumeText string, jobs []models.JobCandidate) ([]models.MatchResult, error)
	SimilarProfiles(ctx context.Context, summaryText string, limit int) ([]ProfileMatch, error)
}

type pipeline struct {
	extractor   TextExtractor
	enricher    ProfileEnricher
	synthesizer AuditSynthesizer
	indexer     EmbeddingIndexer
	inference   InferenceService
	userRepo    repositories.UserRepository
	auditRepo   repositories.AuditRepository
	vectors     VectorStore
	timeouts    PipelineTimeouts
}

// NewPipeline wires the orchestrator. vectors may be nil when no vector
// store is configured; persistence then stays purely relational.
func NewPipeline(
	extractor TextExtractor,
	enricher ProfileEnricher,
	synthesizer AuditSynthesizer,
	indexer EmbeddingIndexer,
	inference InferenceService,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	vectors VectorStore,
	timeouts PipelineTimeouts,
) Pipeline {
	return &pipeline{
		extractor:   extractor,
		enricher:    enricher,
		synthesizer: synthesizer,
		indexer:     indexer,
		inference:   inference,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		vectors:     vectors,
		timeouts:    timeouts,
	}
}

// RunAudit implements Pipeline. See the stage constants for the failure
// policy: extraction failure and total audit failure abort the request;
// every other stage reports through the response.
func (p *pipeline) RunAudit(ctx context.Context, doc Document, githubURL, targetRole string, identity models.Identity) (*models.AuditResponse, error) {
	stage := StageReceived
	log.Printf("🔄 Pipeline %s: %s\n", stage, doc.Filename)

	// Received → Extracted: the only fatal single stage.
	text, err := p.extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	stage = StageExtracted
	log.Printf("📄 Pipeline %s: %d chars\n", stage, len(text))

	// Extracted → Enriched: best-effort, nil is the valid "none" signal.
	var github *models.GitHubStats
	if handle := HandleFromURL(githubURL); handle != "" {
		enrichCtx, cancel := context.WithTimeout(ctx, p.timeouts.Enrich)
		github = p.enricher.FetchStats(enrichCtx, handle)
		cancel()
	}
	stage = StageEnriched
	log.Printf("🔍 Pipeline %s: github signal present=%t\n", stage, github != nil)

	// Enriched → Audited: fatal only when both model calls failed.
	inferCtx, cancelInfer := context.WithTimeout(ctx, p.timeouts.Inference)
	audit, parsed, err := p.synthesizer.Synthesize(inferCtx, text, github, targetRole)
	cancelInfer()
	if err != nil {
		return nil, fmt.Errorf("audit synthesis failed: %w", err)
	}
	stage = StageAudited
	log.Printf("🤖 Pipeline %s: readiness=%d\n", stage, audit.ReadinessScore)

	// Audited → Embedded: best-effort, zero-length vector means absent.
	embedCtx, cancelEmbed := context.WithTimeout(ctx, p.timeouts.Inference)
	embedding := p.indexer.EmbedProfileSummary(embedCtx, audit, targetRole)
	cancelEmbed()
	if len(embedding) == 0 {
		log.Println("⚠️  Profile embedding unavailable, continuing without it")
		embedding = nil
	}
	stage = StageEmbedded

	response := &models.AuditResponse{
		FileName:     doc.Filename,
		TextChars:    len(text),
		Audit:        *audit,
		ParsedResume: *parsed,
		Github:       github,
		Embedding:    embedding,
	}

	// Embedded → Persisted|PersistFailed: both outcomes are non-fatal; the
	// caller learns which one happened from the response.
	stage = p.persist(ctx, response, identity, targetRole)
	log.Printf("💾 Pipeline %s\n", stage)

	stage = StageDone
	log.Printf("✅ Pipeline %s: %s\n", stage, doc.Filename)
	return response, nil
}

// persist writes the derived results. Every failure here is downgraded to
// a warning plus a reason in the response.
func (p *pipeline) persist(ctx context.Context, response *models.AuditResponse, identity models.Identity, targetRole string) PipelineStage {
	if identity.ExternalID == "" {
		response.Persisted = false
		response.PersistError = "no user identity provided, results not saved"
		return StagePersistFailed
	}

	persistCtx, cancel := context.WithTimeout(ctx, p.timeouts.Persist)
	defer cancel()

	user, err := p.userRepo.Upsert(persistCtx, identity.ExternalID, identity.Email, identity.Name)
	if err != nil {
		log.Printf("⚠️  User upsert failed: %v\n", err)
		response.Persisted = false
		response.PersistError = fmt.Sprintf("user sync failed: %v", err)
		return StagePersistFailed
	}
	response.UserID = &user.ID

	auditID, err := p.auditRepo.AppendAudit(persistCtx, user.ID, &response.Audit, response.Github)
	if err != nil {
		log.Printf("⚠️  Audit persistence failed: %v\n", err)
		response.Persisted = false
		response.PersistError = fmt.Sprintf("audit save failed: %v", err)
		return StagePersistFailed
	}
	response.AuditID = &auditID
	response.Persisted = true

	if err := p.userRepo.TouchLastAudit(persistCtx, user.ID); err != nil {
		log.Printf("⚠️  Failed to update last audit time: %v\n", err)
	}

	// Supplementary vector index; its failure never flips the outcome.
	if p.vectors != nil && len(response.Embedding) > 0 {
		if err := p.vectors.UpsertProfileEmbedding(persistCtx, auditID, identity.ExternalID, targetRole, response.Embedding); err != nil {
			log.Printf("⚠️  Profile embedding index failed: %v\n", err)
		}
	}

	return StagePersisted
}

// MatchJobs implements Pipeline: embed the query text, embed every
// candidate independently, rank by cosine similarity. A missing query
// embedding is an error; a missing job embedding just scores 0.
func (p *pipeline) MatchJobs(ctx context.Context, resumeText string, jobs []models.JobCandidate) ([]models.MatchResult, error) {
	embedCtx, cancel := context.WithTimeout(ctx, p.timeouts.Inference)
	defer cancel()

	query := p.inference.Embed(embedCtx, resumeText)
	if len(query) == 0 {
		return nil, fmt.Errorf("failed to generate resume embedding")
	}

	vectors := p.indexer.EmbedJobs(embedCtx, jobs)

	candidates := make([]RankCandidate, len(jobs))
	for i, job := range jobs {
		candidates[i] = RankCandidate{ID: job.ID, Vector: vectors[i]}
	}

	return Rank(query, candidates), nil
}

// SimilarProfiles implements Pipeline: embed the summary text and look up
// the nearest stored profile embeddings.
func (p *pipeline) SimilarProfiles(ctx context.Context, summaryText string, limit int) ([]ProfileMatch, error) {
	if p.vectors == nil {
		return nil, fmt.Errorf("no vector store configured")
	}

	embedCtx, cancel := context.WithTimeout(ctx, p.timeouts.Inference)
	defer cancel()

	query := p.inference.Embed(embedCtx, summaryText)
	if len(query) == 0 {
		return nil, fmt.Errorf("failed to generate query embedding")
	}

	if limit < 1 {
		limit = 10
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, p.timeouts.Persist)
	defer cancelSearch()

	return p.vectors.SearchSimilarProfiles(searchCtx, query, limit)
}
