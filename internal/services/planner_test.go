package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/career-audit/internal/models"
)

const validSprintJSON = `{
	"week_number": 3,
	"tasks": [
		{"id": "task_1", "type": "Skill Development", "description": "Build a Docker pipeline", "time_estimate": "4 hours", "measurable_outcome": "Working CI run", "completed": true},
		{"id": "", "type": "Interview Prep", "description": "Two mock interviews", "time_estimate": "2 hours", "measurable_outcome": "Feedback notes"}
	]
}`

const validIdeasJSON = `[
	{"title": "Event-driven inventory", "description": "d", "tech_stack": ["Go"], "features": ["f"], "architecture": "Microservices", "deployment_guide": "Fly.io", "resume_points": ["r"]},
	{"title": "Realtime dashboard", "description": "d", "tech_stack": ["Go"], "features": ["f"], "architecture": "Monolith", "deployment_guide": "Render", "resume_points": ["r"]}
]`

func newPlannerFixture() (*fakeInference, *fakeUserRepo, *fakeAuditRepo, PlannerService) {
	inference := newFakeInference()
	userRepo := newFakeUserRepo()
	auditRepo := &fakeAuditRepo{}
	planner := NewPlannerService(inference, userRepo, auditRepo, testTimeouts())
	return inference, userRepo, auditRepo, planner
}

func TestGenerateSprint(t *testing.T) {
	t.Run("parses the plan and resets task completion", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.responses[SprintInstruction] = validSprintJSON

		plan, err := planner.GenerateSprint(context.Background(), &models.SprintRequest{
			TargetRole: "Backend Engineer",
			WeekNumber: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, plan.WeekNumber)
		require.Len(t, plan.Tasks, 2)
		assert.False(t, plan.Tasks[0].Completed, "model-set completion is discarded")
		assert.Equal(t, "task_2", plan.Tasks[1].ID, "missing ids are filled in")
	})

	t.Run("malformed response is an error", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.responses[SprintInstruction] = "I cannot produce a plan"

		_, err := planner.GenerateSprint(context.Background(), &models.SprintRequest{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid JSON")
	})

	t.Run("inference failure is an error", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.errors[SprintInstruction] = fmt.Errorf("quota")

		_, err := planner.GenerateSprint(context.Background(), &models.SprintRequest{})

		require.Error(t, err)
	})

	t.Run("known user gets the plan persisted", func(t *testing.T) {
		inference, userRepo, auditRepo, planner := newPlannerFixture()
		inference.responses[SprintInstruction] = validSprintJSON
		_, err := userRepo.Upsert(context.Background(), "user-1", "", "")
		require.NoError(t, err)

		_, err = planner.GenerateSprint(context.Background(), &models.SprintRequest{
			Identity: models.Identity{ExternalID: "user-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, auditRepo.sprints)
	})

	t.Run("persistence failure does not fail the request", func(t *testing.T) {
		inference, userRepo, auditRepo, planner := newPlannerFixture()
		inference.responses[SprintInstruction] = validSprintJSON
		auditRepo.appendErr = fmt.Errorf("db down")
		_, err := userRepo.Upsert(context.Background(), "user-1", "", "")
		require.NoError(t, err)

		plan, err := planner.GenerateSprint(context.Background(), &models.SprintRequest{
			Identity: models.Identity{ExternalID: "user-1"},
		})

		require.NoError(t, err)
		assert.NotNil(t, plan)
	})

	t.Run("stored audit grounds the prompt when none is supplied", func(t *testing.T) {
		inference, userRepo, auditRepo, planner := newPlannerFixture()
		inference.responses[SprintInstruction] = validSprintJSON
		user, err := userRepo.Upsert(context.Background(), "user-1", "", "")
		require.NoError(t, err)

		skillMap, _ := json.Marshal(map[string]float64{"Backend": 60})
		auditRepo.latest = &models.CareerAudit{
			UserID:         user.ID,
			ReadinessScore: 70,
			SkillMap:       skillMap,
		}

		_, err = planner.GenerateSprint(context.Background(), &models.SprintRequest{
			Identity: models.Identity{ExternalID: "user-1"},
		})

		require.NoError(t, err)
	})
}

func TestGenerateProjectIdeas(t *testing.T) {
	t.Run("parses a top-level array", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.responses[ProjectIdeasInstruction] = validIdeasJSON

		ideas, err := planner.GenerateProjectIdeas(context.Background(), &models.ProjectsRequest{
			TargetRole: "Backend Engineer",
		})

		require.NoError(t, err)
		require.Len(t, ideas, 2)
		assert.Equal(t, "Event-driven inventory", ideas[0].Title)
	})

	t.Run("fenced array output is accepted", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.responses[ProjectIdeasInstruction] = "```json\n" + validIdeasJSON + "\n```"

		ideas, err := planner.GenerateProjectIdeas(context.Background(), &models.ProjectsRequest{})

		require.NoError(t, err)
		assert.Len(t, ideas, 2)
	})

	t.Run("empty array is an error", func(t *testing.T) {
		inference, _, _, planner := newPlannerFixture()
		inference.responses[ProjectIdeasInstruction] = "[]"

		_, err := planner.GenerateProjectIdeas(context.Background(), &models.ProjectsRequest{})

		require.Error(t, err)
	})

	t.Run("known user gets ideas persisted", func(t *testing.T) {
		inference, userRepo, auditRepo, planner := newPlannerFixture()
		inference.responses[ProjectIdeasInstruction] = validIdeasJSON
		_, err := userRepo.Upsert(context.Background(), "user-1", "", "")
		require.NoError(t, err)

		_, err = planner.GenerateProjectIdeas(context.Background(), &models.ProjectsRequest{
			Identity: models.Identity{ExternalID: "user-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, auditRepo.ideaBatches)
	})
}

func TestAuditFromRecord(t *testing.T) {
	skillMap, _ := json.Marshal(map[string]float64{"Backend": 60, "Frontend": 80})
	keywords, _ := json.Marshal(map[string]any{
		"recommendations":  []string{"kubernetes"},
		"skill_gaps":       []string{"Docker"},
		"depth_vs_breadth": "specialist",
		"market_alignment": "strong",
	})

	audit := auditFromRecord(&models.CareerAudit{
		ReadinessScore:      150,
		MarketMatchScore:    70,
		ProjectQualityScore: 75,
		SkillMap:            skillMap,
		KeywordAnalysis:     keywords,
	})

	assert.Equal(t, 100, audit.ReadinessScore, "stored scores are re-clamped")
	assert.Equal(t, 60.0, audit.SkillMap["Backend"])
	assert.Equal(t, []string{"Docker"}, audit.SkillGaps)
	assert.Equal(t, "specialist", audit.DepthVsBreadth)

	t.Run("corrupt jsonb leaves zeroed fields", func(t *testing.T) {
		audit := auditFromRecord(&models.CareerAudit{
			SkillMap:        []byte("{not json"),
			KeywordAnalysis: []byte("also not json"),
		})

		assert.NotNil(t, audit.SkillMap)
		assert.Empty(t, audit.SkillMap)
		assert.NotNil(t, audit.SkillGaps)
	})
}
