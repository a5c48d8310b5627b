package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"careerpilot/career-audit/internal/llmjson"
	"careerpilot/career-audit/internal/models"
	"careerpilot/career-audit/internal/repositories"
)

// PlannerService generates the follow-up artifacts of an audit: the weekly
// sprint plan and the portfolio project ideas. Both are grounded in the
// user's latest stored audit when one exists.
type PlannerService interface {
	GenerateSprint(ctx context.Context, req *models.SprintRequest) (*models.SprintPlan, error)
	GenerateProjectIdeas(ctx context.Context, req *models.ProjectsRequest) ([]models.ProjectIdeaData, error)
}

type plannerService struct {
	inference InferenceService
	prompts   *PromptBuilder
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditRepository
	timeouts  PipelineTimeouts
}

func NewPlannerService(
	inference InferenceService,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	timeouts PipelineTimeouts,
) PlannerService {
	return &plannerService{
		inference: inference,
		prompts:   NewPromptBuilder(),
		userRepo:  userRepo,
		auditRepo: auditRepo,
		timeouts:  timeouts,
	}
}

// GenerateSprint implements PlannerService. Unlike the audit pipeline, a
// malformed model response here is an error: there is no meaningful
// defaulted sprint to hand back.
func (p *plannerService) GenerateSprint(ctx context.Context, req *models.SprintRequest) (*models.SprintPlan, error) {
	targetRole := req.TargetRole
	if strings.TrimSpace(targetRole) == "" {
		targetRole = DefaultTargetRole
	}
	weekNumber := req.WeekNumber
	if weekNumber < 1 {
		weekNumber = weekOfYear()
	}

	user, audit := p.resolveContext(ctx, req.ExternalID, req.Audit)

	inferCtx, cancel := context.WithTimeout(ctx, p.timeouts.Inference)
	defer cancel()

	text, err := p.inference.GenerateStructured(inferCtx,
		SprintInstruction,
		p.prompts.BuildSprintPrompt(audit, targetRole, weekNumber))
	if err != nil {
		return nil, fmt.Errorf("sprint generation failed: %w", err)
	}

	var plan models.SprintPlan
	if res := llmjson.Decode(text, &plan); res.Malformed() {
		return nil, fmt.Errorf("sprint response was not valid JSON: %w", res.Err)
	}

	if plan.WeekNumber < 1 {
		plan.WeekNumber = weekNumber
	}
	for i := range plan.Tasks {
		plan.Tasks[i].Completed = false
		if plan.Tasks[i].ID == "" {
			plan.Tasks[i].ID = fmt.Sprintf("task_%d", i+1)
		}
	}

	if user != nil {
		persistCtx, cancelPersist := context.WithTimeout(ctx, p.timeouts.Persist)
		defer cancelPersist()
		if _, err := p.auditRepo.AppendSprint(persistCtx, user.ID, &plan); err != nil {
			log.Printf("⚠️  Sprint persistence failed: %v\n", err)
		}
	}

	return &plan, nil
}

// GenerateProjectIdeas implements PlannerService. The model returns a
// top-level JSON array of three ideas.
func (p *plannerService) GenerateProjectIdeas(ctx context.Context, req *models.ProjectsRequest) ([]models.ProjectIdeaData, error) {
	targetRole := req.TargetRole
	if strings.TrimSpace(targetRole) == "" {
		targetRole = DefaultTargetRole
	}

	user, audit := p.resolveContext(ctx, req.ExternalID, req.Audit)

	inferCtx, cancel := context.WithTimeout(ctx, p.timeouts.Inference)
	defer cancel()

	text, err := p.inference.GenerateStructured(inferCtx,
		ProjectIdeasInstruction,
		p.prompts.BuildProjectIdeasPrompt(audit, targetRole))
	if err != nil {
		return nil, fmt.Errorf("project idea generation failed: %w", err)
	}

	var ideas []models.ProjectIdeaData
	if res := llmjson.Decode(text, &ideas); res.Malformed() {
		return nil, fmt.Errorf("project ideas response was not valid JSON: %w", res.Err)
	}
	if len(ideas) == 0 {
		return nil, fmt.Errorf("model returned no project ideas")
	}

	if user != nil {
		persistCtx, cancelPersist := context.WithTimeout(ctx, p.timeouts.Persist)
		defer cancelPersist()
		if _, err := p.auditRepo.AppendProjectIdeas(persistCtx, user.ID, targetRole, ideas); err != nil {
			log.Printf("⚠️  Project idea persistence failed: %v\n", err)
		}
	}

	return ideas, nil
}

// resolveContext resolves the user and the audit used for prompt grounding.
// A caller-supplied audit wins; otherwise the latest stored one is used.
// Either may be missing; generation proceeds without.
func (p *plannerService) resolveContext(ctx context.Context, externalID string, provided *models.AuditResult) (*models.User, *models.AuditResult) {
	if externalID == "" {
		return nil, provided
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeouts.Persist)
	defer cancel()

	user, err := p.userRepo.FindByExternalID(lookupCtx, externalID)
	if err != nil {
		log.Printf("⚠️  Planner user lookup failed: %v\n", err)
		return nil, provided
	}

	if provided != nil {
		return user, provided
	}

	record, err := p.auditRepo.LatestByUser(lookupCtx, user.ID)
	if err != nil {
		log.Printf("⚠️  No prior audit for planning context: %v\n", err)
		return user, nil
	}

	return user, auditFromRecord(record)
}

// auditFromRecord rebuilds the in-memory audit view from a stored row. The
// jsonb columns are tolerated individually; a corrupt one just leaves its
// fields zeroed.
func auditFromRecord(record *models.CareerAudit) *models.AuditResult {
	audit := &models.AuditResult{
		ReadinessScore:      record.ReadinessScore,
		MarketMatchScore:    record.MarketMatchScore,
		ProjectQualityScore: record.ProjectQualityScore,
		SkillMap:            map[string]float64{},
		SkillGaps:           []string{},
		ATSRecommendations:  []string{},
	}

	if len(record.SkillMap) > 0 {
		if err := json.Unmarshal(record.SkillMap, &audit.SkillMap); err != nil {
			log.Printf("⚠️  Stored skill map unreadable: %v\n", err)
		}
	}

	if len(record.KeywordAnalysis) > 0 {
		var keywords keywordAnalysisView
		if err := json.Unmarshal(record.KeywordAnalysis, &keywords); err != nil {
			log.Printf("⚠️  Stored keyword analysis unreadable: %v\n", err)
		} else {
			audit.SkillGaps = keywords.SkillGaps
			audit.ATSRecommendations = keywords.Recommendations
			audit.DepthVsBreadth = keywords.DepthVsBreadth
			audit.MarketAlignmentInsights = keywords.MarketAlignment
		}
	}

	normalizeAudit(audit)
	return audit
}

// keywordAnalysisView mirrors the jsonb shape written by the audit
// repository.
type keywordAnalysisView struct {
	Recommendations []string `json:"recommendations"`
	SkillGaps       []string `json:"skill_gaps"`
	DepthVsBreadth  string   `json:"depth_vs_breadth"`
	MarketAlignment string   `json:"market_alignment"`
}

func weekOfYear() int {
	_, week := time.Now().ISOWeek()
	return week
}
