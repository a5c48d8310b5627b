package models

import (
	"time"

	"github.com/google/uuid"
)

// CareerAudit is one persisted audit run. The table is append-only: a new
// audit never overwrites an old one, and "latest" is a query-time concept.
type CareerAudit struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ReadinessScore      int       `gorm:"not null;default:0" json:"readiness_score"`
	MarketMatchScore    int       `gorm:"not null;default:0" json:"market_match_score"`
	ProjectQualityScore int       `gorm:"not null;default:0" json:"project_quality_score"`
	SkillMap            []byte    `gorm:"type:jsonb" json:"skill_map"`
	KeywordAnalysis     []byte    `gorm:"type:jsonb" json:"keyword_analysis"`
	GithubAnalysis      []byte    `gorm:"type:jsonb" json:"github_analysis,omitempty"`
	CreatedAt           time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CareerAudit) TableName() string {
	return "career_audits"
}

// WeeklySprint stores one generated execution plan. Append-only.
type WeeklySprint struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WeekNumber     int       `gorm:"not null;default:1" json:"week_number"`
	Year           int       `gorm:"not null" json:"year"`
	Tasks          []byte    `gorm:"type:jsonb" json:"tasks"`
	CompletionRate float64   `gorm:"type:decimal(5,2);default:0" json:"completion_rate"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WeeklySprint) TableName() string {
	return "weekly_sprints"
}

// ProjectIdea is one generated portfolio project suggestion. Append-only.
type ProjectIdea struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           string    `gorm:"type:varchar(255)" json:"title"`
	Role            string    `gorm:"type:varchar(100)" json:"role"`
	Description     string    `gorm:"type:text" json:"description"`
	TechStack       []byte    `gorm:"type:jsonb" json:"tech_stack"`
	Features        []byte    `gorm:"type:jsonb" json:"features"`
	Architecture    string    `gorm:"type:text" json:"architecture"`
	DeploymentGuide string    `gorm:"type:text" json:"deployment_guide"`
	ResumePoints    []byte    `gorm:"type:jsonb" json:"resume_points"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ProjectIdea) TableName() string {
	return "project_ideas"
}
