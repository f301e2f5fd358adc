package models

import "fmt"

const (
	DefaultFeedback = "No feedback provided."
	MaxDisplayScore = 100
)

// Report is the skill-gap result returned by the model. Every field is
// optional: nil means absent, and the accessor methods supply the defaults.
type Report struct {
	MatchScore             *int                   `json:"match_score,omitempty"`
	MissingSkills          []string               `json:"missing_skills,omitzero"`
	PartiallyCoveredSkills []string               `json:"partially_covered_skills,omitzero"`
	Recommendations        []string               `json:"recommendations,omitzero"`
	Feedback               *string                `json:"feedback,omitempty"`
	RecommendedCourses     []CourseRecommendation `json:"recommended_courses,omitzero"`
	RecommendedJobs        []JobRecommendation    `json:"recommended_jobs,omitzero"`
}

type CourseRecommendation struct {
	Title    string `json:"title,omitempty"`
	Platform string `json:"platform,omitempty"`
	Link     string `json:"link,omitempty"`
}

type JobRecommendation struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Link    string `json:"link,omitempty"`
}

// Score returns the stored match score, or 0 when absent.
func (r *Report) Score() int {
	if r == nil || r.MatchScore == nil {
		return 0
	}
	return *r.MatchScore
}

// DisplayScore clamps Score to [0, 100]. The stored value is left untouched.
func (r *Report) DisplayScore() int {
	return max(0, min(r.Score(), MaxDisplayScore))
}

func (r *Report) FeedbackText() string {
	if r == nil || r.Feedback == nil {
		return DefaultFeedback
	}
	return *r.Feedback
}

func (r *Report) HasMissingSkills() bool {
	return r != nil && len(r.MissingSkills) > 0
}

// IsEmpty is true when the model output yielded no usable field at all.
func (r *Report) IsEmpty() bool {
	return r == nil || (r.MatchScore == nil &&
		r.MissingSkills == nil &&
		r.PartiallyCoveredSkills == nil &&
		r.Recommendations == nil &&
		r.Feedback == nil &&
		r.RecommendedCourses == nil &&
		r.RecommendedJobs == nil)
}

// ReportView is the presentation form of a Report: defaults applied, score
// clamped, and no nil slices.
type ReportView struct {
	MatchScore             int                    `json:"match_score"`
	ScoreLabel             string                 `json:"score_label"`
	MissingSkills          []string               `json:"missing_skills"`
	PartiallyCoveredSkills []string               `json:"partially_covered_skills"`
	Recommendations        []string               `json:"recommendations"`
	Feedback               string                 `json:"feedback"`
	RecommendedCourses     []CourseRecommendation `json:"recommended_courses"`
	RecommendedJobs        []JobRecommendation    `json:"recommended_jobs"`
}

func NewReportView(r *Report) ReportView {
	if r == nil {
		r = &Report{}
	}

	score := r.DisplayScore()
	return ReportView{
		MatchScore:             score,
		ScoreLabel:             fmt.Sprintf("%d/%d", score, MaxDisplayScore),
		MissingSkills:          orEmpty(r.MissingSkills),
		PartiallyCoveredSkills: orEmpty(r.PartiallyCoveredSkills),
		Recommendations:        orEmpty(r.Recommendations),
		Feedback:               r.FeedbackText(),
		RecommendedCourses:     orEmpty(r.RecommendedCourses),
		RecommendedJobs:        orEmpty(r.RecommendedJobs),
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
