package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/crypto"
	"github.com/pfrederiksen/chapter-events/internal/event"
)

const (
	backendGist  = "gist"
	gistAPIURL   = "https://api.github.com/gists"
	gistFilename = "events.json"
)

// GistStore keeps the collection in a file of a private GitHub Gist
type GistStore struct {
	apiURL      string
	gistID      string
	githubToken string
	httpClient  *http.Client
	encryptor   *crypto.Encryptor
}

// NewGistStore creates a Gist-backed store. enc may be nil.
func NewGistStore(gistID, githubToken string, timeout time.Duration, enc *crypto.Encryptor) (*GistStore, error) {
	if gistID == "" {
		return nil, fmt.Errorf("gist ID is required")
	}
	if githubToken == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	return &GistStore{
		apiURL:      gistAPIURL,
		gistID:      gistID,
		githubToken: githubToken,
		httpClient:  newHTTPClient(timeout),
		encryptor:   enc,
	}, nil
}

func (g *GistStore) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s", g.githubToken))
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// ReadAll returns ErrEmpty when the gist has no events file yet.
func (g *GistStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	req, err := g.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%s", g.apiURL, g.gistID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Backend: backendGist, Op: "read", Err: fmt.Errorf("fetching gist: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Don't include response body in error to prevent information leakage
		return nil, &Error{Kind: KindUnavailable, Backend: backendGist, Op: "read", Err: fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)}
	}

	var gistResp struct {
		Files map[string]struct {
			Content   string `json:"content"`
			Truncated bool   `json:"truncated"`
			RawURL    string `json:"raw_url"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gistResp); err != nil {
		return nil, &Error{Kind: KindUnavailable, Backend: backendGist, Op: "read", Err: fmt.Errorf("decoding gist response: %w", err)}
	}

	file, exists := gistResp.Files[gistFilename]
	if !exists {
		return nil, ErrEmpty
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		content, err = g.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, &Error{Kind: KindUnavailable, Backend: backendGist, Op: "read", Err: err}
		}
	}
	if content == "" {
		return nil, ErrEmpty
	}

	plaintext, err := g.encryptor.Open(content)
	if err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendGist, Op: "read", Err: err}
	}

	var c event.Collection
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendGist, Op: "read", Err: fmt.Errorf("parsing collection: %w", err)}
	}
	if c.Events == nil {
		c.Events = make([]*event.Event, 0)
	}
	return &c, nil
}

// fetchRaw downloads file content the API truncated (files over 1 MB).
func (g *GistStore) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := g.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching raw gist file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("raw gist file (status %d)", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading raw gist file: %w", err)
	}
	return string(data), nil
}

// WriteAll updates the events file of the gist. A token lacking gist scope
// yields KindReadOnly.
func (g *GistStore) WriteAll(ctx context.Context, c *event.Collection) error {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	content, err := g.encryptor.Seal(data)
	if err != nil {
		return fmt.Errorf("encrypting collection: %w", err)
	}

	payload := map[string]interface{}{
		"files": map[string]interface{}{
			gistFilename: map[string]string{
				"content": content,
			},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := g.newRequest(ctx, http.MethodPatch, fmt.Sprintf("%s/%s", g.apiURL, g.gistID), bytes.NewReader(payloadBytes))
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindUnavailable, Backend: backendGist, Op: "write", Err: fmt.Errorf("updating gist: %w", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindReadOnly, Backend: backendGist, Op: "write", Err: fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)}
	default:
		return &Error{Kind: KindUnavailable, Backend: backendGist, Op: "write", Err: fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)}
	}
}
