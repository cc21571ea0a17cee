package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/crypto"
	"github.com/pfrederiksen/chapter-events/internal/event"
)

const (
	backendKV    = "kv"
	DefaultKVKey = "events"
)

// KVStore keeps the collection as one value in a Redis database reached over
// the Upstash REST protocol (GET /get/<key>, POST /set/<key>).
type KVStore struct {
	baseURL    string
	token      string
	key        string
	httpClient *http.Client
	encryptor  *crypto.Encryptor
}

// NewKVStore creates a KV-backed store. enc may be nil.
func NewKVStore(baseURL, token, key string, timeout time.Duration, enc *crypto.Encryptor) (*KVStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("KV REST URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("KV REST token is required")
	}
	if key == "" {
		key = DefaultKVKey
	}
	return &KVStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		key:        key,
		httpClient: newHTTPClient(timeout),
		encryptor:  enc,
	}, nil
}

type kvResponse struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

// ReadAll returns ErrEmpty when the key does not exist.
func (s *KVStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	resp, err := s.do(ctx, http.MethodGet, "get", nil)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Backend: backendKV, Op: "read", Err: err}
	}

	if resp.status != http.StatusOK || resp.body.Error != "" {
		return nil, &Error{Kind: KindUnavailable, Backend: backendKV, Op: "read", Err: resp.err()}
	}
	if resp.body.Result == nil {
		return nil, ErrEmpty
	}

	plaintext, err := s.encryptor.Open(*resp.body.Result)
	if err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendKV, Op: "read", Err: err}
	}

	var c event.Collection
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendKV, Op: "read", Err: fmt.Errorf("parsing collection: %w", err)}
	}
	if c.Events == nil {
		c.Events = make([]*event.Event, 0)
	}
	return &c, nil
}

// WriteAll stores the collection under the configured key. A token without
// write permission yields KindReadOnly.
func (s *KVStore) WriteAll(ctx context.Context, c *event.Collection) error {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	payload, err := s.encryptor.Seal(data)
	if err != nil {
		return fmt.Errorf("encrypting collection: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "set", strings.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindUnavailable, Backend: backendKV, Op: "write", Err: err}
	}

	if resp.status == http.StatusOK && resp.body.Error == "" {
		return nil
	}

	kind := KindUnavailable
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden ||
		strings.Contains(resp.body.Error, "NOPERM") || strings.Contains(resp.body.Error, "READONLY") {
		kind = KindReadOnly
	}
	return &Error{Kind: kind, Backend: backendKV, Op: "write", Err: resp.err()}
}

type kvResult struct {
	status int
	body   kvResponse
}

func (r kvResult) err() error {
	if r.body.Error != "" {
		return fmt.Errorf("KV error (status %d): %s", r.status, r.body.Error)
	}
	return fmt.Errorf("KV error (status %d)", r.status)
}

func (s *KVStore) do(ctx context.Context, method, command string, body io.Reader) (kvResult, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, command, url.PathEscape(s.key))

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return kvResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return kvResult{}, fmt.Errorf("calling KV: %w", err)
	}
	defer resp.Body.Close()

	result := kvResult{status: resp.StatusCode}
	// Error bodies may not be JSON; the status code still classifies them.
	_ = json.NewDecoder(resp.Body).Decode(&result.body)
	return result, nil
}
