package services

import (
	"context"
	"log"
	"strings"

	"alfredoptarigan/skillsync/internal/models"
)

const maxJobQuerySkills = 3

// BuildJobQuery joins up to the first three skills with single spaces.
func BuildJobQuery(skills []string) string {
	if len(skills) > maxJobQuerySkills {
		skills = skills[:maxJobQuerySkills]
	}
	return strings.Join(skills, " ")
}

type CourseRecommender interface {
	Recommend(ctx context.Context, report *models.Report, opts GenerationOptions) []models.CourseRecommendation
}

type courseRecommender struct {
	llm           LLMService
	extractor     *JSONExtractor
	promptBuilder *PromptBuilder
	retriever     *CatalogRetriever
}

// NewCourseRecommender builds the course recommender. retriever may be nil
// when no catalog is configured.
func NewCourseRecommender(llm LLMService, extractor *JSONExtractor, retriever *CatalogRetriever) CourseRecommender {
	return &courseRecommender{
		llm:           llm,
		extractor:     extractor,
		promptBuilder: NewPromptBuilder(),
		retriever:     retriever,
	}
}

// Recommend never fails: any error yields an empty list.
func (c *courseRecommender) Recommend(ctx context.Context, report *models.Report, opts GenerationOptions) []models.CourseRecommendation {
	if report == nil || !report.HasMissingSkills() {
		return []models.CourseRecommendation{}
	}

	var catalogContext string
	if c.retriever != nil {
		rag, err := c.retriever.Retrieve(ctx, c.promptBuilder.BuildRetrievalQuery(report.MissingSkills))
		if err != nil {
			log.Printf("⚠️ Course catalog retrieval failed: %v\n", err)
		} else {
			catalogContext = rag
		}
	}

	prompt := c.promptBuilder.BuildCoursePrompt(report.MissingSkills, catalogContext)
	raw, err := c.llm.GenerateText(ctx, prompt, opts)
	if err != nil {
		log.Printf("⚠️ Course recommendation failed: %v\n", err)
		return []models.CourseRecommendation{}
	}

	courses := toCourses(c.extractor.Extract(raw))
	if courses == nil {
		log.Println("⚠️ Course recommendation returned no usable JSON")
		return []models.CourseRecommendation{}
	}

	return courses
}

type JobRecommender interface {
	Recommend(ctx context.Context, report *models.Report) []models.JobRecommendation
}

type jobRecommender struct {
	searcher JobSearcher
}

func NewJobRecommender(searcher JobSearcher) JobRecommender {
	return &jobRecommender{searcher: searcher}
}

// Recommend never fails: any error yields an empty list.
func (j *jobRecommender) Recommend(ctx context.Context, report *models.Report) []models.JobRecommendation {
	if report == nil || !report.HasMissingSkills() {
		return []models.JobRecommendation{}
	}

	query := BuildJobQuery(report.MissingSkills)
	jobs, err := j.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("⚠️ Job search for %q failed: %v\n", query, err)
		return []models.JobRecommendation{}
	}

	if jobs == nil {
		return []models.JobRecommendation{}
	}
	return jobs
}
