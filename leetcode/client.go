// Package leetcode is a client for the public LeetCode proxy API serving the
// daily challenge, problem metadata and recent user submissions.
package leetcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leetstreak/models"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures the client
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        uint64
	RequestsPerSecond float64
	SubmissionLimit   int
	HTTPClient        *http.Client
}

// Client fetches challenge data. Each call is bounded by a timeout, rate limited,
// and retried with exponential backoff on transport errors, 429 and 5xx responses.
type Client struct {
	baseURL         string
	http            *http.Client
	timeout         time.Duration
	maxRetries      uint64
	limiter         *rate.Limiter
	submissionLimit int
	initialInterval time.Duration
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// NewClient creates a new API client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.SubmissionLimit <= 0 {
		opts.SubmissionLimit = 20
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            opts.HTTPClient,
		timeout:         opts.Timeout,
		maxRetries:      opts.MaxRetries,
		limiter:         rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst),
		submissionLimit: opts.SubmissionLimit,
		initialInterval: 500 * time.Millisecond,
	}
}

// DailyChallengeSlug returns today's daily challenge slug
func (c *Client) DailyChallengeSlug(ctx context.Context) (string, error) {
	var resp dailyResponse
	if err := c.getJSON(ctx, "/daily", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch daily challenge: %w", err)
	}
	if resp.Question.TitleSlug == "" {
		return "", fmt.Errorf("daily challenge response has no slug")
	}
	return resp.Question.TitleSlug, nil
}

// Problem returns metadata for slug
func (c *Client) Problem(ctx context.Context, slug string) (*models.Problem, error) {
	var resp problemResponse
	if err := c.getJSON(ctx, "/problem/"+url.PathEscape(slug), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch problem %s: %w", slug, err)
	}

	difficulty, err := models.ParseDifficulty(resp.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", slug, err)
	}

	topics := make([]string, 0, len(resp.TopicTags))
	for _, tag := range resp.TopicTags {
		topics = append(topics, tag.Name)
	}

	problemURL := resp.URL
	if problemURL == "" {
		problemURL = "https://leetcode.com/problems/" + slug + "/"
	}

	return &models.Problem{
		Slug:           slug,
		Title:          resp.Title,
		Difficulty:     difficulty,
		Topics:         topics,
		AcceptanceRate: resp.Stats.ACRate,
		URL:            problemURL,
	}, nil
}

// RecentSubmissions returns the user's most recent submissions
func (c *Client) RecentSubmissions(ctx context.Context, username string) ([]models.Submission, error) {
	query := url.Values{"limit": {strconv.Itoa(c.submissionLimit)}}

	var resp []submissionResponse
	if err := c.getJSON(ctx, "/user/"+url.PathEscape(username)+"/submissions", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for %s: %w", username, err)
	}

	submissions := make([]models.Submission, 0, len(resp))
	for _, s := range resp {
		submissions = append(submissions, models.Submission{
			Slug:      s.TitleSlug,
			Status:    s.StatusDisplay,
			Timestamp: string(s.Timestamp),
		})
	}
	return submissions, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(c.initialInterval),
				backoff.WithMaxInterval(5*time.Second),
				backoff.WithMaxElapsedTime(c.timeout*time.Duration(c.maxRetries+1)),
			),
			c.maxRetries,
		),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		body, err := c.fetch(ctx, target)
		if err != nil {
			log.WithFields(log.Fields{
				"url":     target,
				"attempt": attempt,
			}).WithError(err).Debug("LeetCode API request failed")
			return err
		}
		if err := sonic.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	return backoff.Retry(operation, policy)
}

// fetch performs one bounded request. Client errors other than 429 are not retried.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := &StatusError{StatusCode: resp.StatusCode, URL: target}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
