package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

type AnalyzeInput struct {
	ResumeText       string
	JobDescription   string
	Options          GenerationOptions
	ResumeDocumentID *uuid.UUID
}

type AnalysisResult struct {
	// ID is uuid.Nil when the analysis was not persisted.
	ID          uuid.UUID
	Report      *models.Report
	RawResponse string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalysisResult, error)
}

type analyzerService struct {
	llm           LLMService
	extractor     *JSONExtractor
	promptBuilder *PromptBuilder
	courses       CourseRecommender
	jobs          JobRecommender
	analysisRepo  repositories.AnalysisRepository
	publisher     EventPublisher
	timeout       time.Duration
}

type AnalyzerDeps struct {
	LLM       LLMService
	Extractor *JSONExtractor
	Courses   CourseRecommender
	Jobs      JobRecommender
	// AnalysisRepo may be nil, in which case nothing is persisted.
	AnalysisRepo repositories.AnalysisRepository
	Publisher    EventPublisher
	Timeout      time.Duration
}

func NewAnalyzerService(deps AnalyzerDeps) AnalyzerService {
	if deps.Extractor == nil {
		deps.Extractor = NewJSONExtractor("")
	}
	if deps.Publisher == nil {
		deps.Publisher = NewNoopPublisher()
	}

	return &analyzerService{
		llm:           deps.LLM,
		extractor:     deps.Extractor,
		promptBuilder: NewPromptBuilder(),
		courses:       deps.Courses,
		jobs:          deps.Jobs,
		analysisRepo:  deps.AnalysisRepo,
		publisher:     deps.Publisher,
		timeout:       deps.Timeout,
	}
}

// Analyze runs one match end to end. Only missing input, the primary model
// call and persistence can fail it.
func (a *analyzerService) Analyze(ctx context.Context, input AnalyzeInput) (*AnalysisResult, error) {
	if strings.TrimSpace(input.ResumeText) == "" || strings.TrimSpace(input.JobDescription) == "" {
		return nil, ErrMissingInput
	}

	opts := input.Options.Clamp()

	log.Printf("🤖 Analyzing resume with %s (temperature=%.2f, max_tokens=%d)\n", a.llm.Provider(), opts.Temperature, opts.MaxTokens)
	prompt := a.promptBuilder.BuildMatchPrompt(input.JobDescription, input.ResumeText)

	raw, err := a.generate(ctx, prompt, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	report := a.extractor.ParseReport(raw)
	if report.IsEmpty() {
		log.Println("⚠️ Model output contained no usable report fields")
	}

	if a.courses != nil {
		courseCtx, cancel := a.withTimeout(ctx)
		if courses := a.courses.Recommend(courseCtx, report, opts); len(courses) > 0 {
			report.RecommendedCourses = courses
		}
		cancel()
	}

	if a.jobs != nil {
		if jobs := a.jobs.Recommend(ctx, report); len(jobs) > 0 {
			report.RecommendedJobs = jobs
		}
	}

	result := &AnalysisResult{Report: report, RawResponse: raw}

	if a.analysisRepo == nil {
		return result, nil
	}

	id, err := a.persist(input, opts, report, raw)
	if err != nil {
		return nil, err
	}
	result.ID = id
	log.Printf("✅ Analysis %s saved (match score %d)\n", id, report.Score())

	event := ReportEvent{
		AnalysisID: id.String(),
		MatchScore: report.Score(),
		Status:     ReportStatusCompleted,
		Timestamp:  time.Now().UTC(),
	}
	if err := a.publisher.PublishReportCompleted(event); err != nil {
		log.Printf("⚠️ Failed to publish report event for %s: %v\n", id, err)
	}

	return result, nil
}

func (a *analyzerService) generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.llm.GenerateText(callCtx, prompt, opts)
}

func (a *analyzerService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *analyzerService) persist(input AnalyzeInput, opts GenerationOptions, report *models.Report, raw string) (uuid.UUID, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode report: %w", err)
	}

	analysis := &models.Analysis{
		ID:               uuid.New(),
		ResumeDocumentID: input.ResumeDocumentID,
		JobDescription:   input.JobDescription,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		Provider:         a.llm.Provider(),
		MatchScore:       report.MatchScore,
		ReportJSON:       string(reportJSON),
		RawResponse:      raw,
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		return uuid.Nil, err
	}

	return analysis.ID, nil
}

// DecodeStoredReport rebuilds the report persisted with an analysis.
func DecodeStoredReport(analysis *models.Analysis) (*models.Report, error) {
	var report models.Report
	if err := json.Unmarshal([]byte(analysis.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return &report, nil
}
