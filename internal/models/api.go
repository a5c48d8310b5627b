package models

import "github.com/google/uuid"

// Identity carries the externally-authenticated user identity alongside a
// request. Authentication itself happens upstream; the pipeline only sees
// these strings. An empty ExternalID means "anonymous, skip persistence".
type Identity struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// AuditResponse is the single structured result of one pipeline run. Each
// degradable stage reports through its own field instead of failing the
// request: Github may be null, Embedding may be absent, and Persisted may
// be false with a reason.
type AuditResponse struct {
	FileName     string       `json:"file_name"`
	TextChars    int          `json:"text_chars"`
	Audit        AuditResult  `json:"audit"`
	ParsedResume ParsedResume `json:"parsed_data"`
	Github       *GitHubStats `json:"github"`
	Embedding    []float32    `json:"embedding,omitempty"`
	Persisted    bool         `json:"persisted"`
	PersistError string       `json:"persist_error,omitempty"`
	AuditID      *uuid.UUID   `json:"audit_id,omitempty"`
	UserID       *uuid.UUID   `json:"user_id,omitempty"`
}

// MatchRequest is the matching entry contract: free query text plus the
// caller-supplied job candidates.
type MatchRequest struct {
	ResumeText string         `json:"resume_text"`
	Jobs       []JobCandidate `json:"jobs"`
}

// SprintRequest asks for a weekly sprint plan derived from a prior audit.
type SprintRequest struct {
	Identity
	Audit      *AuditResult `json:"audit"`
	TargetRole string       `json:"target_role"`
	WeekNumber int          `json:"week_number"`
}

// ProjectsRequest asks for portfolio project ideas derived from a prior
// audit.
type ProjectsRequest struct {
	Identity
	Audit      *AuditResult `json:"audit"`
	TargetRole string       `json:"target_role"`
}
