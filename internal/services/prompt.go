package services

import (
	"encoding/json"
	"fmt"

	"careerpilot/career-audit/internal/models"
)

// DefaultTargetRole is used when the caller does not name a role.
const DefaultTargetRole = "Software Engineer"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// CareerAuditInstruction is the system instruction for the quantified
// readiness audit.
const CareerAuditInstruction = `You are a career intelligence audit AI.
Your task is to analyze a candidate's resume and GitHub data and produce a quantified readiness audit.

INPUT DATA:
- Resume Text
- GitHub Profile Analysis (optional)
- Target Role

OUTPUT: Return EXACTLY this JSON:
{
  "readiness_score": 85,
  "market_match_score": 70,
  "project_quality_score": 75,
  "skill_map": {
    "Frontend": 80,
    "Backend": 60,
    "DevOps": 40,
    "DSA": 90,
    "System Design": 50
  },
  "skill_gaps": ["Redux", "Docker", "CI/CD"],
  "depth_vs_breadth": "Analysis of whether the candidate is a specialist or generalist",
  "ats_recommendations": ["keyword1", "keyword2"],
  "market_alignment_insights": "Brief analysis of how well the candidate fits current hiring trends"
}

Guidelines:
- readiness_score should be objective and tough.
- project_quality_score should focus on complexity and impact.
- skill_map should cover major engineering categories.
- skill_gaps must be specific to the Target Role.`

// ResumeParseInstruction is the system instruction for the structured
// resume extraction.
const ResumeParseInstruction = `You are a resume parsing AI. Extract structured data from the resume text.

OUTPUT: Return EXACTLY this JSON (no markdown, no code fences):
{
  "skills": ["Skill1", "Skill2"],
  "experience_years": "3",
  "education": [
    { "degree": "B.Sc. in CS", "institution": "Example University", "year": "2023" }
  ],
  "projects": [
    { "name": "Project Name", "description": "Brief description", "technologies": ["React", "Node.js"] }
  ],
  "strength_score": 72,
  "missing_keywords": ["Docker", "AWS", "CI/CD"],
  "summary": "Brief 1-2 sentence professional summary"
}

Guidelines:
- Extract ALL skills mentioned in the resume.
- Estimate experience_years from dates or explicit mentions.
- strength_score should be 0-100 based on overall resume quality.
- missing_keywords should be skills commonly needed for the target role but absent from the resume.
- If education or projects are not found, return empty arrays.`

// SprintInstruction is the system instruction for the weekly sprint plan.
const SprintInstruction = `You are a career sprint planning AI. Every week you generate a high-impact execution plan for a developer.

CONTEXT:
- Current Skill Map
- Skill Gaps
- Target Role
- Week Number

OUTPUT: Return EXACTLY this JSON:
{
  "week_number": 1,
  "tasks": [
    {
      "id": "task_1",
      "type": "Skill Development",
      "description": "Learn and implement X in a small project",
      "time_estimate": "4 hours",
      "measurable_outcome": "Completed Code/Certificate"
    }
  ]
}

Guidelines:
- Generate 5 tasks total.
- Task types: "Skill Development", "Portfolio Improvement", "Networking", "Interview Prep".
- Tasks must be actionable and measurable.
- Focus on closing the most critical skill gap first.`

// ProjectIdeasInstruction is the system instruction for portfolio project
// generation.
const ProjectIdeasInstruction = `You are a portfolio project advisor AI. Generate portfolio-grade project ideas that demonstrate seniority to recruiters.

OUTPUT: Return EXACTLY this JSON:
[
  {
    "title": "Project Name",
    "description": "Unique selling point and core functionality",
    "tech_stack": ["React", "Go", "PostgreSQL"],
    "features": ["Feature 1", "Feature 2"],
    "architecture": "High-level overview (Microservices/Monolith/Serverless)",
    "deployment_guide": "Platform and tool recommendations",
    "resume_points": ["Bullet 1", "Bullet 2"]
  }
]

Guidelines:
- Generate 3 distinct ideas.
- Avoid generic ideas (no simple to-do apps).
- Focus on resume-ready features.`

// BuildAuditPrompt combines the resume text with the serialized GitHub
// signal for the audit call. A nil signal is rendered as "None" so the
// model does not hallucinate repository data.
func (pb *PromptBuilder) BuildAuditPrompt(resumeText string, githubStats *models.GitHubStats, targetRole string) string {
	githubBlock := `"None"`
	if githubStats != nil {
		if data, err := json.Marshal(githubStats); err == nil {
			githubBlock = string(data)
		}
	}

	return fmt.Sprintf("Analyze this resume for the role of %s:\n\nRESUME:\n%s\n\nGITHUB_STATS:\n%s",
		targetRole, resumeText, githubBlock)
}

// BuildResumeParsePrompt wraps the resume text for the structured parse
// call.
func (pb *PromptBuilder) BuildResumeParsePrompt(resumeText, targetRole string) string {
	return fmt.Sprintf("Parse this resume for the target role of %s:\n\n%s", targetRole, resumeText)
}

// BuildSprintPrompt serializes the prior audit as context for the sprint
// generator.
func (pb *PromptBuilder) BuildSprintPrompt(audit *models.AuditResult, targetRole string, weekNumber int) string {
	auditBlock := `"No audit found"`
	if audit != nil {
		if data, err := json.Marshal(audit); err == nil {
			auditBlock = string(data)
		}
	}
	if weekNumber < 1 {
		weekNumber = 1
	}

	return fmt.Sprintf("CURRENT AUDIT: %s\nTARGET ROLE: %s\nWEEK NUMBER: %d\n\nGenerate a set of 5 actionable tasks for this week.",
		auditBlock, targetRole, weekNumber)
}

// BuildProjectIdeasPrompt serializes the prior audit as context for the
// project idea generator.
func (pb *PromptBuilder) BuildProjectIdeasPrompt(audit *models.AuditResult, targetRole string) string {
	auditBlock := `"No audit found"`
	if audit != nil {
		if data, err := json.Marshal(audit); err == nil {
			auditBlock = string(data)
		}
	}

	return fmt.Sprintf("USER AUDIT: %s\nTARGET ROLE: %s\n\nGenerate 3 portfolio-grade project ideas.",
		auditBlock, targetRole)
}
