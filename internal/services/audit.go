package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"careerpilot/career-audit/internal/llmjson"
	"careerpilot/career-audit/internal/models"
)

// AuditSynthesizer turns extracted resume text plus the optional GitHub
// signal into an AuditResult and a ParsedResume. The two analyses come from
// two independent model calls and are never reconciled with each other.
type AuditSynthesizer interface {
	Synthesize(ctx context.Context, resumeText string, github *models.GitHubStats, targetRole string) (*models.AuditResult, *models.ParsedResume, error)
}

type auditSynthesizer struct {
	inference InferenceService
	prompts   *PromptBuilder
}

func NewAuditSynthesizer(inference InferenceService) AuditSynthesizer {
	return &auditSynthesizer{
		inference: inference,
		prompts:   NewPromptBuilder(),
	}
}

type inferenceOutcome struct {
	text string
	err  error
}

// Synthesize implements AuditSynthesizer. The two structured calls run
// concurrently and may complete in either order; each side is parsed
// independently and falls back to its defaulted record on malformed output.
// Only the failure of BOTH calls is an error.
func (a *auditSynthesizer) Synthesize(ctx context.Context, resumeText string, github *models.GitHubStats, targetRole string) (*models.AuditResult, *models.ParsedResume, error) {
	if strings.TrimSpace(targetRole) == "" {
		targetRole = DefaultTargetRole
	}

	auditCh := make(chan inferenceOutcome, 1)
	parseCh := make(chan inferenceOutcome, 1)

	go func() {
		text, err := a.inference.GenerateStructured(ctx,
			CareerAuditInstruction,
			a.prompts.BuildAuditPrompt(resumeText, github, targetRole))
		auditCh <- inferenceOutcome{text: text, err: err}
	}()

	go func() {
		text, err := a.inference.GenerateStructured(ctx,
			ResumeParseInstruction,
			a.prompts.BuildResumeParsePrompt(resumeText, targetRole))
		parseCh <- inferenceOutcome{text: text, err: err}
	}()

	auditOut := <-auditCh
	parseOut := <-parseCh

	if auditOut.err != nil && parseOut.err != nil {
		return nil, nil, fmt.Errorf("both analyses failed: %v; %v", auditOut.err, parseOut.err)
	}

	audit := a.parseAudit(auditOut)
	parsed := a.parseResume(parseOut, audit)

	return audit, parsed, nil
}

func (a *auditSynthesizer) parseAudit(out inferenceOutcome) *models.AuditResult {
	if out.err != nil {
		log.Printf("⚠️  Career audit call failed: %v\n", out.err)
		return defaultAuditResult("analysis unavailable")
	}

	var audit models.AuditResult
	if res := llmjson.Decode(out.text, &audit); res.Malformed() {
		log.Printf("⚠️  Career audit response was not valid JSON: %v\n", res.Err)
		return defaultAuditResult("parsing failed")
	}

	normalizeAudit(&audit)
	return &audit
}

func (a *auditSynthesizer) parseResume(out inferenceOutcome, audit *models.AuditResult) *models.ParsedResume {
	if out.err == nil {
		var parsed models.ParsedResume
		if res := llmjson.Decode(out.text, &parsed); res.Parsed {
			normalizeParsedResume(&parsed)
			return &parsed
		}
		log.Printf("⚠️  Resume parse response was not valid JSON\n")
	} else {
		log.Printf("⚠️  Resume parse call failed: %v\n", out.err)
	}

	// Fall back to a resume derived from the audit, so the response still
	// carries a populated record.
	skills := make([]string, 0, len(audit.SkillMap))
	for category := range audit.SkillMap {
		skills = append(skills, category)
	}
	parsed := models.ParsedResume{
		Skills:          skills,
		ExperienceYears: "0",
		Education:       []models.Education{},
		Projects:        []models.Project{},
		StrengthScore:   audit.ReadinessScore,
		MissingKeywords: audit.SkillGaps,
		Summary:         audit.DepthVsBreadth,
	}
	normalizeParsedResume(&parsed)
	return &parsed
}

// defaultAuditResult is the fully-populated zero record returned when the
// audit cannot be derived. Every field is present so downstream consumers
// never see a missing audit.
func defaultAuditResult(reason string) *models.AuditResult {
	return &models.AuditResult{
		ReadinessScore:          0,
		MarketMatchScore:        0,
		ProjectQualityScore:     0,
		SkillMap:                map[string]float64{},
		SkillGaps:               []string{},
		DepthVsBreadth:          "N/A",
		ATSRecommendations:      []string{},
		MarketAlignmentInsights: reason,
	}
}

func normalizeAudit(audit *models.AuditResult) {
	audit.ReadinessScore = clampScore(audit.ReadinessScore)
	audit.MarketMatchScore = clampScore(audit.MarketMatchScore)
	audit.ProjectQualityScore = clampScore(audit.ProjectQualityScore)

	if audit.SkillMap == nil {
		audit.SkillMap = map[string]float64{}
	}
	for category, score := range audit.SkillMap {
		audit.SkillMap[category] = clampScoreF(score)
	}
	if audit.SkillGaps == nil {
		audit.SkillGaps = []string{}
	}
	if audit.ATSRecommendations == nil {
		audit.ATSRecommendations = []string{}
	}
}

func normalizeParsedResume(parsed *models.ParsedResume) {
	parsed.Skills = dedupeSkills(parsed.Skills)
	parsed.ExperienceYears = normalizeExperienceYears(parsed.ExperienceYears)
	parsed.StrengthScore = clampScore(parsed.StrengthScore)

	if parsed.Education == nil {
		parsed.Education = []models.Education{}
	}
	if parsed.Projects == nil {
		parsed.Projects = []models.Project{}
	}
	if parsed.MissingKeywords == nil {
		parsed.MissingKeywords = []string{}
	}
}

// dedupeSkills removes duplicates comparing case-insensitively while
// keeping the first spelling for display.
func dedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	deduped := make([]string, 0, len(skills))

	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, trimmed)
	}

	return deduped
}

// normalizeExperienceYears reduces model output like "3 years" or "3.5" to
// a non-negative integer string, defaulting to "0".
func normalizeExperienceYears(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
			continue
		}
		if digits.Len() > 0 {
			break
		}
	}

	if digits.Len() == 0 {
		return "0"
	}
	return digits.String()
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampScoreF(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
