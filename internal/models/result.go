package models

// AuditResult is the quantified readiness audit synthesized from the resume
// text and the optional GitHub signal. All scores are clamped to [0,100];
// on inference failure every field is populated with defaults instead of
// being omitted.
type AuditResult struct {
	ReadinessScore          int                `json:"readiness_score"`
	MarketMatchScore        int                `json:"market_match_score"`
	ProjectQualityScore     int                `json:"project_quality_score"`
	SkillMap                map[string]float64 `json:"skill_map"`
	SkillGaps               []string           `json:"skill_gaps"`
	DepthVsBreadth          string             `json:"depth_vs_breadth"`
	ATSRecommendations      []string           `json:"ats_recommendations"`
	MarketAlignmentInsights string             `json:"market_alignment_insights"`
}

// ParsedResume is the structured view of the resume text. It is derived
// independently from AuditResult and the two are never reconciled.
type ParsedResume struct {
	Skills          []string    `json:"skills"`
	ExperienceYears string      `json:"experience_years"`
	Education       []Education `json:"education"`
	Projects        []Project   `json:"projects"`
	StrengthScore   int         `json:"strength_score"`
	MissingKeywords []string    `json:"missing_keywords"`
	Summary         string      `json:"summary"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// GitHubStats is the supplementary profile signal. A nil *GitHubStats is
// the explicit "none" value and is always valid.
type GitHubStats struct {
	Username    string         `json:"username"`
	PublicRepos int            `json:"public_repos"`
	TotalStars  int            `json:"total_stars"`
	Languages   map[string]int `json:"languages"`
	TopRepos    []RepoSummary  `json:"top_repos"`
}

type RepoSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
}

// JobCandidate is an external job record supplied by the caller; only the
// fields used to build the comparison text matter to the pipeline.
type JobCandidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// MatchResult pairs a job id with its cosine similarity to the query,
// rounded to 4 decimals.
type MatchResult struct {
	JobID string  `json:"job_id"`
	Score float64 `json:"match_score"`
}

// SprintTask is one actionable item in a weekly sprint plan.
type SprintTask struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Description       string `json:"description"`
	TimeEstimate      string `json:"time_estimate"`
	MeasurableOutcome string `json:"measurable_outcome"`
	Completed         bool   `json:"completed"`
}

// SprintPlan is a generated weekly execution plan.
type SprintPlan struct {
	WeekNumber int          `json:"week_number"`
	Tasks      []SprintTask `json:"tasks"`
}

// ProjectIdeaData is one generated portfolio project suggestion.
type ProjectIdeaData struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	TechStack       []string `json:"tech_stack"`
	Features        []string `json:"features"`
	Architecture    string   `json:"architecture"`
	DeploymentGuide string   `json:"deployment_guide"`
	ResumePoints    []string `json:"resume_points"`
}
