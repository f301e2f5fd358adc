package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/models"
)

// JobSearcher looks up live job postings for a free-text query.
type JobSearcher interface {
	Search(ctx context.Context, query string) ([]models.JobRecommendation, error)
}

type jsearchResponse struct {
	Status string `json:"status"`
	Data   []struct {
		JobTitle     string `json:"job_title"`
		EmployerName string `json:"employer_name"`
		JobApplyLink string `json:"job_apply_link"`
	} `json:"data"`
}

// jsearchClient calls the JSearch API on RapidAPI.
type jsearchClient struct {
	apiKey   string
	host     string
	baseURL  string
	country  string
	numPages int
	client   *http.Client
	limiter  *rate.Limiter
	cache    JobCache
}

func NewJobSearcher(cfg config.JobSearchConfig, cache JobCache, client *http.Client) JobSearcher {
	return newJSearchClient(cfg, "https://"+cfg.Host, cache, client)
}

func newJSearchClient(cfg config.JobSearchConfig, baseURL string, cache JobCache, client *http.Client) *jsearchClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	numPages := cfg.NumPages
	if numPages <= 0 {
		numPages = 1
	}

	return &jsearchClient{
		apiKey:   cfg.APIKey,
		host:     cfg.Host,
		baseURL:  strings.TrimRight(baseURL, "/"),
		country:  cfg.Country,
		numPages: numPages,
		client:   client,
		limiter:  rate.NewLimiter(limit, 1),
		cache:    cache,
	}
}

// Search implements JobSearcher.
func (j *jsearchClient) Search(ctx context.Context, query string) ([]models.JobRecommendation, error) {
	key := JobCacheKey(query, j.country)
	if j.cache != nil {
		if jobs, ok := j.cache.Get(ctx, key); ok {
			return jobs, nil
		}
	}

	if err := j.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("job search rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", strconv.Itoa(j.numPages))
	if j.country != "" {
		params.Set("country", j.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build job search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", j.apiKey)
	req.Header.Set("X-RapidAPI-Host", j.host)

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call job search: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read job search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job search returned status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	var decoded jsearchResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode job search response: %w", err)
	}

	jobs := make([]models.JobRecommendation, 0, len(decoded.Data))
	for _, posting := range decoded.Data {
		jobs = append(jobs, models.JobRecommendation{
			Title:   posting.JobTitle,
			Company: posting.EmployerName,
			Link:    posting.JobApplyLink,
		})
	}

	if j.cache != nil {
		j.cache.Set(ctx, key, jobs)
	}

	return jobs, nil
}
