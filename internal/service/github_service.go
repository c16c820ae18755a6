package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/observability"
)

// githubReposPerPage matches the number of repositories shown on a profile
// page.
const githubReposPerPage = 5

// GithubRepo is the subset of the GitHub repository payload exposed to
// clients.
type GithubRepo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

type GithubService struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGithubService builds a GitHub lookup client. The token is optional;
// when set it raises the API rate limit.
func NewGithubService(baseURL, token string) *GithubService {
	return &GithubService{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListRepos returns the user's five most recently created public
// repositories. Any non-success answer from GitHub, including rate limiting,
// is reported as the profile not existing; only a failure to reach GitHub at
// all surfaces as an upstream error.
func (s *GithubService) ListRepos(ctx context.Context, username string) ([]GithubRepo, error) {
	ctx, span := observability.TraceExternalCall(ctx, "github", "ListRepos")
	defer span.End()

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=created:asc",
		s.baseURL, url.PathEscape(username), githubReposPerPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnect-api")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		middleware.GithubLookups.WithLabelValues("upstream_error").Inc()
		span.RecordError(err)
		return nil, models.NewUpstreamError("Github", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		middleware.GithubLookups.WithLabelValues("not_found").Inc()
		return nil, models.NewNotFoundError("No Github profile found")
	}

	var repos []GithubRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		middleware.GithubLookups.WithLabelValues("upstream_error").Inc()
		span.RecordError(err)
		return nil, models.NewUpstreamError("Github", err)
	}

	middleware.GithubLookups.WithLabelValues("ok").Inc()
	return repos, nil
}
