package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/skillsync/internal/models"
)

const (
	jobDescriptionPlaceholder  = "{job_description}"
	candidateResumePlaceholder = "{candidate_resume}"
	missingSkillsPlaceholder   = "{missing_skills}"
	catalogContextPlaceholder  = "{catalog_context}"
)

const matchPromptTemplate = `You are an AI Career Advisor and Resume Analyzer designed to give precise, structured, and actionable feedback.

You will be provided two inputs:
1. Job Description (JD) - with role title, required skills, and responsibilities.
2. Candidate Resume - with education, skills, projects, certifications, and experience.

Your task is to:
- Parse both documents carefully.
- Compare the resume content against the JD requirements in detail.
- Output a structured JSON report with: match score, missing skills, partially covered skills, recommendations, and feedback.

Output Format (STRICT JSON ONLY, no explanations, no commentary, no markdown):

{
  "match_score": 72,
  "missing_skills": ["Kubernetes", "AWS Lambda"],
  "partially_covered_skills": ["Azure Functions"],
  "recommendations": [
    "Highlight cloud-native experience with AWS",
    "Add certification in Kubernetes or Docker",
    "Emphasize leadership experience in DevOps projects"
  ],
  "feedback": "Solid backend expertise but resume lacks emphasis on cloud-native and container orchestration."
}

Detailed Instructions:

1. Match Score (0-100):
   - Start at 100 and deduct based on gaps:
     - Each missing critical technical skill: -5 to -10 points.
     - Each missing key responsibility / domain requirement: -3 to -7 points.
     - Lack of alignment in experience vs. JD role level: -5 to -10 points.
   - Reward extra credit (+2-5) for additional highly relevant skills not in JD but useful.
   - Ensure scoring is balanced and realistic (not inflated).

2. Missing Skills:
   - List critical hard skills explicitly mentioned in JD but absent in resume.
   - Only include skills that are truly absent.

3. Partially Covered Skills:
   - List skills that are similar/related but not exact matches.
   - Example: Resume has "Azure Functions" but JD asks "AWS Lambda".

4. Recommendations (actionable):
   - Always link directly to JD requirements.
   - Cover resume edits, skill development, and experience highlighting.
   - Keep them specific, realistic, and measurable.

5. Feedback (short summary):
   - 2-4 sentences max, constructive and professional.
   - Highlight strengths and weaknesses.

Additional Guidelines:
- No hallucination: only extract from the given JD and Resume.
- If resume experience level does not align with JD seniority, mention it in recommendations.
- Include soft skills only if the JD explicitly lists them.
- Keep field names lowercase with underscores.
- Ensure valid JSON, no trailing commas, all strings double-quoted.

Context to Analyze:
Job_Description:
{job_description}

Candidate_Resume:
{candidate_resume}
`

const coursePromptTemplate = `You are a learning advisor. A candidate is missing the following skills for a job they want:
{missing_skills}

{catalog_context}
Recommend up to 5 online courses that close these gaps. Prefer well-known platforms (Coursera, Udemy, edX, Pluralsight, official vendor training).

Return ONLY a JSON array, no markdown, no commentary:
[
  {"title": "<course title>", "platform": "<platform name>", "link": "<course url>"}
]`

const chatInstruction = `You are SkillSync, a friendly career advisor. Help the user improve their resume, close skill gaps, and prepare for job applications.
Answer concisely in plain text. If a skill-gap report is provided as context, ground your advice in it and do not invent resume content.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt fills the analysis template in a single pass, so
// placeholder-like text inside either input is left as-is.
func (pb *PromptBuilder) BuildMatchPrompt(jobDescription, resumeText string) string {
	return strings.NewReplacer(
		jobDescriptionPlaceholder, jobDescription,
		candidateResumePlaceholder, resumeText,
	).Replace(matchPromptTemplate)
}

// BuildCoursePrompt asks for course records covering the missing skills.
// catalogContext may be empty.
func (pb *PromptBuilder) BuildCoursePrompt(missingSkills []string, catalogContext string) string {
	var skills strings.Builder
	for _, skill := range missingSkills {
		skills.WriteString("- ")
		skills.WriteString(skill)
		skills.WriteString("\n")
	}

	if catalogContext != "" {
		catalogContext = "Prefer courses from this reference catalog when they fit:\n" + catalogContext + "\n"
	}

	return strings.NewReplacer(
		missingSkillsPlaceholder, strings.TrimRight(skills.String(), "\n"),
		catalogContextPlaceholder, catalogContext,
	).Replace(coursePromptTemplate)
}

// BuildChatContext prefixes a user's first chat message with the report it
// refers to.
func (pb *PromptBuilder) BuildChatContext(report *models.Report, message string) string {
	if report == nil {
		return message
	}

	view := models.NewReportView(report)
	return fmt.Sprintf(`Skill-gap report for this conversation:
- Match score: %s
- Missing skills: %s
- Partially covered skills: %s
- Feedback: %s

User question:
%s`,
		view.ScoreLabel,
		joinOrNone(view.MissingSkills),
		joinOrNone(view.PartiallyCoveredSkills),
		view.Feedback,
		message,
	)
}

func (pb *PromptBuilder) ChatInstruction() string {
	return chatInstruction
}

// BuildRetrievalQuery creates the catalog search query for a set of skills.
func (pb *PromptBuilder) BuildRetrievalQuery(missingSkills []string) string {
	return fmt.Sprintf("Courses and learning resources for %s", strings.Join(missingSkills, ", "))
}

// FormatRAGContext renders catalog search hits for prompt injection.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Catalog entry %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
