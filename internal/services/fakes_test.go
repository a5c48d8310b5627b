package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"careerpilot/career-audit/internal/models"
)

// fakeInference scripts the model layer. Responses are keyed by the system
// instruction so a test can fail one analysis and not the other.
type fakeInference struct {
	mu        sync.Mutex
	responses map[string]string
	errors    map[string]error
	embedding []float32
	embedErr  bool
	calls     []string
	embeds    []string
}

func newFakeInference() *fakeInference {
	return &fakeInference{
		responses: map[string]string{},
		errors:    map[string]error{},
		embedding: []float32{0.1, 0.2, 0.3},
	}
}

func (f *fakeInference) GenerateStructured(_ context.Context, instruction, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, instruction)
	if err, ok := f.errors[instruction]; ok {
		return "", err
	}
	return f.responses[instruction], nil
}

func (f *fakeInference) Embed(_ context.Context, text string) []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, text)
	if f.embedErr {
		return []float32{}
	}
	return f.embedding
}

// fakeExtractor scripts the extraction stage.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeEnricher scripts the GitHub stage and counts calls.
type fakeEnricher struct {
	stats *models.GitHubStats
	calls int
}

func (f *fakeEnricher) FetchStats(_ context.Context, _ string) *models.GitHubStats {
	f.calls++
	return f.stats
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	upsertErr error
	touchErr  error
	findErr   error
	users     map[string]*models.User
	touched   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Upsert(_ context.Context, externalID, email, name string) (*models.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if user, ok := f.users[externalID]; ok {
		return user, nil
	}
	user := &models.User{
		ID:               uuid.New(),
		ExternalID:       externalID,
		Email:            email,
		Name:             name,
		SubscriptionTier: "free",
	}
	f.users[externalID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByExternalID(_ context.Context, externalID string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if user, ok := f.users[externalID]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUserRepo) TouchLastAudit(_ context.Context, _ uuid.UUID) error {
	f.touched++
	return f.touchErr
}

// fakeAuditRepo is an in-memory AuditRepository.
type fakeAuditRepo struct {
	appendErr   error
	latestErr   error
	latest      *models.CareerAudit
	audits      int
	sprints     int
	ideaBatches int
}

func (f *fakeAuditRepo) AppendAudit(_ context.Context, _ uuid.UUID, _ *models.AuditResult, _ *models.GitHubStats) (uuid.UUID, error) {
	if f.appendErr != nil {
		return uuid.Nil, f.appendErr
	}
	f.audits++
	return uuid.New(), nil
}

func (f *fakeAuditRepo) LatestByUser(_ context.Context, _ uuid.UUID) (*models.CareerAudit, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	if f.latest == nil {
		return nil, fmt.Errorf("no audits for user")
	}
	return f.latest, nil
}

func (f *fakeAuditRepo) AppendSprint(_ context.Context, _ uuid.UUID, _ *models.SprintPlan) (uuid.UUID, error) {
	if f.appendErr != nil {
		return uuid.Nil, f.appendErr
	}
	f.sprints++
	return uuid.New(), nil
}

func (f *fakeAuditRepo) AppendProjectIdeas(_ context.Context, _ uuid.UUID, _ string, ideas []models.ProjectIdeaData) ([]uuid.UUID, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.ideaBatches++
	ids := make([]uuid.UUID, len(ideas))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids, nil
}

// fakeVectorStore records upserts and serves scripted matches.
type fakeVectorStore struct {
	upsertErr error
	searchErr error
	matches   []ProfileMatch
	upserts   int
}

func (f *fakeVectorStore) InitCollection() error { return nil }

func (f *fakeVectorStore) UpsertProfileEmbedding(_ context.Context, _ uuid.UUID, _, _ string, _ []float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	return nil
}

func (f *fakeVectorStore) SearchSimilarProfiles(_ context.Context, _ []float32, _ int) ([]ProfileMatch, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}
