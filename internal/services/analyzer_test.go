package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/models"
)

type fakeAnalysisRepo struct {
	created []*models.Analysis
	err     error
}

func (f *fakeAnalysisRepo) Create(analysis *models.Analysis) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, analysis)
	return nil
}

func (f *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAnalysisRepo) ListRecent(int) ([]models.Analysis, error) {
	out := make([]models.Analysis, 0, len(f.created))
	for _, a := range f.created {
		out = append(out, *a)
	}
	return out, nil
}

type fakePublisher struct {
	events []ReportEvent
	err    error
}

func (f *fakePublisher) PublishReportCompleted(event ReportEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestAnalyzeRequiresBothInputs(t *testing.T) {
	llm := &fakeLLM{}
	analyzer := NewAnalyzerService(AnalyzerDeps{LLM: llm})

	for _, input := range []AnalyzeInput{
		{ResumeText: "Go developer"},
		{JobDescription: "Need Go"},
		{ResumeText: "  ", JobDescription: "Need Go"},
	} {
		_, err := analyzer.Analyze(context.Background(), input)
		assert.ErrorIs(t, err, ErrMissingInput)
	}
	assert.Zero(t, llm.calls())
}

func TestAnalyzePipeline(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		"Here you go:\n{\"match_score\": 137, \"missing_skills\": [\"Docker\", \"Kubernetes\", \"Terraform\", \"Go\"]}\nHope this helps!",
		`[{"title": "Docker Mastery", "platform": "Udemy", "link": "https://udemy.com/docker"}]`,
	}}
	searcher := &fakeJobSearcher{jobs: []models.JobRecommendation{{Title: "DevOps Engineer", Company: "Acme"}}}
	repo := &fakeAnalysisRepo{}
	publisher := &fakePublisher{}
	extractor := NewJSONExtractor(config.ExtractionBalanced)

	analyzer := NewAnalyzerService(AnalyzerDeps{
		LLM:          llm,
		Extractor:    extractor,
		Courses:      NewCourseRecommender(llm, extractor, nil),
		Jobs:         NewJobRecommender(searcher),
		AnalysisRepo: repo,
		Publisher:    publisher,
	})

	result, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		ResumeText:     "Go developer with AWS",
		JobDescription: "Platform engineer: Docker, Kubernetes, Terraform, Go",
		Options:        GenerationOptions{Temperature: 3, MaxTokens: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, 137, result.Report.Score())
	assert.Equal(t, 100, result.Report.DisplayScore())
	assert.Len(t, result.Report.RecommendedCourses, 1)
	assert.Equal(t, searcher.jobs, result.Report.RecommendedJobs)
	assert.Equal(t, []string{"Docker Kubernetes Terraform"}, searcher.queries)

	require.Len(t, llm.opts, 2)
	assert.Equal(t, GenerationOptions{Temperature: MaxTemperature, MaxTokens: MinMaxTokens}, llm.opts[0])
	assert.Contains(t, llm.prompts[0], "Candidate_Resume:\nGo developer with AWS")

	require.Len(t, repo.created, 1)
	saved := repo.created[0]
	assert.Equal(t, result.ID, saved.ID)
	assert.Equal(t, "fake", saved.Provider)
	assert.Equal(t, MaxTemperature, saved.Temperature)

	stored, err := DecodeStoredReport(saved)
	require.NoError(t, err)
	assert.Equal(t, result.Report, stored)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, result.ID.String(), publisher.events[0].AnalysisID)
	assert.Equal(t, 137, publisher.events[0].MatchScore)
	assert.Equal(t, ReportStatusCompleted, publisher.events[0].Status)
}

func TestAnalyzeWithoutMissingSkillsSkipsRecommenders(t *testing.T) {
	llm := &fakeLLM{replies: []string{`{"match_score": 95, "feedback": "Strong fit."}`}}
	searcher := &fakeJobSearcher{}
	extractor := NewJSONExtractor(config.ExtractionBalanced)

	result, err := NewAnalyzerService(AnalyzerDeps{
		LLM:     llm,
		Courses: NewCourseRecommender(llm, extractor, nil),
		Jobs:    NewJobRecommender(searcher),
	}).Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, result.ID)
	assert.Nil(t, result.Report.RecommendedCourses)
	assert.Nil(t, result.Report.RecommendedJobs)
	assert.Equal(t, 1, llm.calls())
	assert.Empty(t, searcher.queries)
}

func TestAnalyzeMalformedOutputYieldsEmptyReport(t *testing.T) {
	llm := &fakeLLM{replies: []string{"I'm sorry, I can't produce JSON today."}}

	result, err := NewAnalyzerService(AnalyzerDeps{LLM: llm}).
		Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})

	require.NoError(t, err)
	assert.True(t, result.Report.IsEmpty())
	assert.Equal(t, "I'm sorry, I can't produce JSON today.", result.RawResponse)
}

func TestAnalyzePropagatesModelFailure(t *testing.T) {
	llm := &fakeLLM{errs: []error{errors.New("401 invalid api key")}}
	repo := &fakeAnalysisRepo{}

	_, err := NewAnalyzerService(AnalyzerDeps{LLM: llm, AnalysisRepo: repo}).
		Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})

	assert.ErrorIs(t, err, ErrModelCall)
	assert.ErrorContains(t, err, "401 invalid api key")
	assert.Empty(t, repo.created)
}

func TestAnalyzePropagatesPersistenceFailure(t *testing.T) {
	llm := &fakeLLM{replies: []string{`{"match_score": 50}`}}
	publisher := &fakePublisher{}

	_, err := NewAnalyzerService(AnalyzerDeps{
		LLM:          llm,
		AnalysisRepo: &fakeAnalysisRepo{err: errors.New("db down")},
		Publisher:    publisher,
	}).Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})

	assert.ErrorContains(t, err, "db down")
	assert.Empty(t, publisher.events)
}

func TestAnalyzeIgnoresPublishFailure(t *testing.T) {
	llm := &fakeLLM{replies: []string{`{"match_score": 50}`}}

	result, err := NewAnalyzerService(AnalyzerDeps{
		LLM:          llm,
		AnalysisRepo: &fakeAnalysisRepo{},
		Publisher:    &fakePublisher{err: errors.New("channel closed")},
	}).Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
}

func TestAnalyzeStoredReportKeepsEmptyLists(t *testing.T) {
	llm := &fakeLLM{replies: []string{`{"match_score": 90, "missing_skills": [], "summary": "x"}`}}
	repo := &fakeAnalysisRepo{}

	result, err := NewAnalyzerService(AnalyzerDeps{
		LLM:          llm,
		AnalysisRepo: repo,
	}).Analyze(context.Background(), AnalyzeInput{ResumeText: "r", JobDescription: "jd"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.JSONEq(t, `{"match_score":90,"missing_skills":[]}`, repo.created[0].ReportJSON)
	assert.Contains(t, repo.created[0].RawResponse, `"summary": "x"`)

	stored, err := DecodeStoredReport(repo.created[0])
	require.NoError(t, err)
	assert.Equal(t, result.Report, stored)
}
