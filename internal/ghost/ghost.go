package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/meal"
)

// Tag is a Ghost post tag.
type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post represents a single recipe post from the Ghost API.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	URL       string `json:"url"`
	UpdatedAt string `json:"updated_at"`
	Tags      []Tag  `json:"tags"`
}

// Category returns the first tag naming a meal category, if any.
func (p Post) Category() (meal.Category, bool) {
	for _, t := range p.Tags {
		for _, raw := range []string{t.Slug, t.Name} {
			if c := meal.ParseCategory(raw); c.IsRequired() {
				return c, true
			}
		}
	}
	return "", false
}

// PostsResponse is the top-level structure of the Ghost API response for posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

// Client is an interface for a Ghost API client (Content & Admin).
type Client interface {
	FetchRecipes(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error)
}

// ghostClient is the concrete implementation of the Ghost API client.
type ghostClient struct {
	httpClient *http.Client
	baseURL    string
	contentKey string
	adminKey   string
}

// NewClient creates a new Ghost API client.
func NewClient(cfg *config.Config) Client {
	return &ghostClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.GhostURL, "/"),
		contentKey: cfg.GhostContentKey,
		adminKey:   cfg.GhostAdminKey,
	}
}

// FetchRecipes fetches all posts, with their tags, from the Ghost Content API.
func (c *ghostClient) FetchRecipes(ctx context.Context) ([]Post, error) {
	q := url.Values{}
	q.Set("key", c.contentKey)
	q.Set("include", "tags")
	q.Set("formats", "html")
	q.Set("limit", "all")
	endpoint := fmt.Sprintf("%s/ghost/api/v3/content/posts/?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api error: status %d", resp.StatusCode)
	}

	var postsResponse PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&postsResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return postsResponse.Posts, nil
}

type newPost struct {
	Title  string `json:"title"`
	HTML   string `json:"html"`
	Status string `json:"status"`
}

// CreatePost creates a new post using the Ghost Admin API.
func (c *ghostClient) CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error) {
	token, err := c.createAdminToken(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	status := "draft"
	if publish {
		status = "published"
	}

	body, err := json.Marshal(map[string][]newPost{
		"posts": {{Title: title, HTML: html, Status: status}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}
	endpoint := fmt.Sprintf("%s/ghost/api/v3/admin/posts/?source=html", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("admin api error: status %d, body: %s", resp.StatusCode, errBody)
	}

	var response PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Posts) == 0 {
		return nil, errors.New("no post returned from api")
	}

	return &response.Posts[0], nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *ghostClient) createAdminToken(now time.Time) (string, error) {
	keyParts := strings.Split(c.adminKey, ":")
	if len(keyParts) != 2 {
		return "", errors.New("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/v3/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
