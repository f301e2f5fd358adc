package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

type AnalyzeMatchInput struct {
	ResumeText     string   `json:"resume_text" jsonschema:"Plain text of the candidate resume"`
	JobDescription string   `json:"job_description" jsonschema:"Plain text of the job description"`
	Temperature    *float32 `json:"temperature,omitempty" jsonschema:"Sampling temperature between 0 and 1"`
	MaxTokens      *int32   `json:"max_tokens,omitempty" jsonschema:"Max output tokens between 100 and 2000"`
}

type AnalyzeMatchOutput struct {
	Report *models.Report    `json:"report"`
	View   models.ReportView `json:"view"`
}

type RecommendJobsInput struct {
	Skills []string `json:"skills" jsonschema:"Skills to search for. Only the first three are used."`
}

type RecommendJobsOutput struct {
	Query string                     `json:"query"`
	Jobs  []models.JobRecommendation `json:"jobs"`
}

type toolset struct {
	analyzer services.AnalyzerService
	jobs     services.JobRecommender
	defaults services.GenerationOptions
}

func (t *toolset) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_resume_match",
		Description: "Score a resume against a job description. Returns match score (0-100), missing and partially covered skills, recommendations, feedback, and course and job suggestions for the missing skills.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.analyzeResumeMatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_jobs",
		Description: "Search live job postings for up to three skills. Returns title, company and apply link for each posting.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.recommendJobs)
}

func (t *toolset) analyzeResumeMatch(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeMatchInput) (*mcp.CallToolResult, *AnalyzeMatchOutput, error) {
	opts := t.defaults
	if input.Temperature != nil {
		opts.Temperature = *input.Temperature
	}
	if input.MaxTokens != nil {
		opts.MaxTokens = *input.MaxTokens
	}

	result, err := t.analyzer.Analyze(ctx, services.AnalyzeInput{
		ResumeText:     input.ResumeText,
		JobDescription: input.JobDescription,
		Options:        opts,
	})
	if err != nil {
		return nil, nil, err
	}

	return nil, &AnalyzeMatchOutput{
		Report: result.Report,
		View:   models.NewReportView(result.Report),
	}, nil
}

func (t *toolset) recommendJobs(ctx context.Context, _ *mcp.CallToolRequest, input RecommendJobsInput) (*mcp.CallToolResult, *RecommendJobsOutput, error) {
	report := &models.Report{MissingSkills: input.Skills}

	return nil, &RecommendJobsOutput{
		Query: services.BuildJobQuery(input.Skills),
		Jobs:  t.jobs.Recommend(ctx, report),
	}, nil
}
