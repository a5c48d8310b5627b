package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerpilot/career-audit/internal/models"
)

// AuditRepository is the append-only store for derived results. Historical
// rows are never updated or deleted; "latest" is a query, not a state.
type AuditRepository interface {
	AppendAudit(ctx context.Context, userID uuid.UUID, audit *models.AuditResult, github *models.GitHubStats) (uuid.UUID, error)
	LatestByUser(ctx context.Context, userID uuid.UUID) (*models.CareerAudit, error)
	AppendSprint(ctx context.Context, userID uuid.UUID, plan *models.SprintPlan) (uuid.UUID, error)
	AppendProjectIdeas(ctx context.Context, userID uuid.UUID, role string, ideas []models.ProjectIdeaData) ([]uuid.UUID, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// keywordAnalysis is the jsonb shape of the non-numeric audit fields.
type keywordAnalysis struct {
	Recommendations []string `json:"recommendations"`
	SkillGaps       []string `json:"skill_gaps"`
	DepthVsBreadth  string   `json:"depth_vs_breadth"`
	MarketAlignment string   `json:"market_alignment"`
}

// AppendAudit implements AuditRepository.
func (r *auditRepository) AppendAudit(ctx context.Context, userID uuid.UUID, audit *models.AuditResult, github *models.GitHubStats) (uuid.UUID, error) {
	skillMap, err := json.Marshal(audit.SkillMap)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skill map: %w", err)
	}

	keywords, err := json.Marshal(keywordAnalysis{
		Recommendations: audit.ATSRecommendations,
		SkillGaps:       audit.SkillGaps,
		DepthVsBreadth:  audit.DepthVsBreadth,
		MarketAlignment: audit.MarketAlignmentInsights,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal keyword analysis: %w", err)
	}

	var githubJSON []byte
	if github != nil {
		githubJSON, err = json.Marshal(github)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal github analysis: %w", err)
		}
	}

	record := models.CareerAudit{
		ID:                  uuid.New(),
		UserID:              userID,
		ReadinessScore:      audit.ReadinessScore,
		MarketMatchScore:    audit.MarketMatchScore,
		ProjectQualityScore: audit.ProjectQualityScore,
		SkillMap:            skillMap,
		KeywordAnalysis:     keywords,
		GithubAnalysis:      githubJSON,
		CreatedAt:           time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to append audit: %w", err)
	}

	return record.ID, nil
}

// LatestByUser implements AuditRepository.
func (r *auditRepository) LatestByUser(ctx context.Context, userID uuid.UUID) (*models.CareerAudit, error) {
	var audit models.CareerAudit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&audit).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no audits for user")
		}
		return nil, fmt.Errorf("failed to find latest audit: %w", err)
	}

	return &audit, nil
}

// AppendSprint implements AuditRepository.
func (r *auditRepository) AppendSprint(ctx context.Context, userID uuid.UUID, plan *models.SprintPlan) (uuid.UUID, error) {
	tasks, err := json.Marshal(plan.Tasks)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal sprint tasks: %w", err)
	}

	week := plan.WeekNumber
	if week < 1 {
		week = 1
	}

	sprint := models.WeeklySprint{
		ID:         uuid.New(),
		UserID:     userID,
		WeekNumber: week,
		Year:       time.Now().Year(),
		Tasks:      tasks,
		CreatedAt:  time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&sprint).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to append sprint: %w", err)
	}

	return sprint.ID, nil
}

// AppendProjectIdeas implements AuditRepository.
func (r *auditRepository) AppendProjectIdeas(ctx context.Context, userID uuid.UUID, role string, ideas []models.ProjectIdeaData) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(ideas))

	for _, idea := range ideas {
		techStack, err := json.Marshal(idea.TechStack)
		if err != nil {
			return ids, fmt.Errorf("failed to marshal tech stack: %w", err)
		}
		features, err := json.Marshal(idea.Features)
		if err != nil {
			return ids, fmt.Errorf("failed to marshal features: %w", err)
		}
		resumePoints, err := json.Marshal(idea.ResumePoints)
		if err != nil {
			return ids, fmt.Errorf("failed to marshal resume points: %w", err)
		}

		record := models.ProjectIdea{
			ID:              uuid.New(),
			UserID:          userID,
			Title:           idea.Title,
			Role:            role,
			Description:     idea.Description,
			TechStack:       techStack,
			Features:        features,
			Architecture:    idea.Architecture,
			DeploymentGuide: idea.DeploymentGuide,
			ResumePoints:    resumePoints,
			CreatedAt:       time.Now(),
		}

		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return ids, fmt.Errorf("failed to append project idea: %w", err)
		}

		ids = append(ids, record.ID)
	}

	return ids, nil
}
