package services

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/skillsync/internal/models"
)

//go:embed schemas/report.schema.json
var reportSchemaJSON []byte

var (
	reportSchemaOnce sync.Once
	reportSchema     *gojsonschema.Schema
	reportSchemaErr  error
)

func loadReportSchema() (*gojsonschema.Schema, error) {
	reportSchemaOnce.Do(func() {
		reportSchema, reportSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reportSchemaJSON))
	})
	return reportSchema, reportSchemaErr
}

// ValidateReportFields checks a decoded report object against the embedded
// schema and returns one message per violation.
func ValidateReportFields(fields map[string]any) []string {
	schema, err := loadReportSchema()
	if err != nil {
		return []string{fmt.Sprintf("report schema unavailable: %v", err)}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(fields))
	if err != nil {
		return []string{fmt.Sprintf("report validation failed: %v", err)}
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return violations
}

// ParseReport extracts and normalizes raw model output in one step.
func (e *JSONExtractor) ParseReport(input any) *models.Report {
	return NormalizeReport(e.Extract(input))
}

// NormalizeReport converts an extracted value into a typed Report. Fields
// with an unusable type are treated as absent. A *models.Report is returned
// as-is.
func NormalizeReport(v any) *models.Report {
	switch value := v.(type) {
	case *models.Report:
		if value == nil {
			return &models.Report{}
		}
		return value
	case models.Report:
		return &value
	case map[string]any:
		return reportFromFields(value)
	case []any:
		// Some models wrap the object in a one-element array.
		if len(value) > 0 {
			if first, ok := value[0].(map[string]any); ok {
				return reportFromFields(first)
			}
		}
		return &models.Report{}
	default:
		return &models.Report{}
	}
}

func reportFromFields(fields map[string]any) *models.Report {
	for _, violation := range ValidateReportFields(fields) {
		log.Printf("⚠️ Report schema violation: %s", violation)
	}

	report := &models.Report{}

	if raw, ok := fields["match_score"]; ok {
		if score, ok := toInt(raw); ok {
			report.MatchScore = &score
		}
	}
	if raw, ok := fields["missing_skills"]; ok {
		report.MissingSkills, _ = toStringList(raw)
	}
	if raw, ok := fields["partially_covered_skills"]; ok {
		report.PartiallyCoveredSkills, _ = toStringList(raw)
	}
	if raw, ok := fields["recommendations"]; ok {
		report.Recommendations, _ = toStringList(raw)
	}
	if raw, ok := fields["feedback"].(string); ok {
		report.Feedback = &raw
	}
	if raw, ok := fields["recommended_courses"]; ok {
		report.RecommendedCourses = toCourses(raw)
	}
	if raw, ok := fields["recommended_jobs"]; ok {
		report.RecommendedJobs = toJobs(raw)
	}

	return report
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return floatToInt(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, ok := parseFloat(n.String()); ok {
			return floatToInt(f)
		}
	case string:
		if f, ok := parseFloat(strings.TrimSpace(n)); ok {
			return floatToInt(f)
		}
	}
	return 0, false
}

// parseFloat accepts out-of-range numbers as ±Inf.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// floatToInt truncates toward zero and saturates at the int range.
func floatToInt(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

// toStringList keeps string elements in order, formats scalar numbers and
// booleans, and drops anything else.
func toStringList(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return append([]string{}, items...), true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case float64, bool, json.Number:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out, true
	}
	return nil, false
}

func toCourses(v any) []models.CourseRecommendation {
	switch items := v.(type) {
	case []models.CourseRecommendation:
		return items
	case []any:
		courses := make([]models.CourseRecommendation, 0, len(items))
		for _, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			courses = append(courses, models.CourseRecommendation{
				Title:    firstString(fields, "title", "name", "course"),
				Platform: firstString(fields, "platform", "provider"),
				Link:     firstString(fields, "link", "url"),
			})
		}
		return courses
	case map[string]any:
		if nested, ok := items["recommended_courses"]; ok {
			return toCourses(nested)
		}
		if nested, ok := items["courses"]; ok {
			return toCourses(nested)
		}
	}
	return nil
}

func toJobs(v any) []models.JobRecommendation {
	switch items := v.(type) {
	case []models.JobRecommendation:
		return items
	case []any:
		jobs := make([]models.JobRecommendation, 0, len(items))
		for _, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			jobs = append(jobs, models.JobRecommendation{
				Title:   firstString(fields, "title", "job_title"),
				Company: firstString(fields, "company", "employer_name", "employer"),
				Link:    firstString(fields, "link", "job_apply_link", "url"),
			})
		}
		return jobs
	}
	return nil
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
