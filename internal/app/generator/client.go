package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeprep/internal/common"
	"codeprep/internal/domain/model"

	"go.uber.org/zap"
)

// GeneratedProblem is the wire format the external problem-generator service
// produces: the public statement plus the hidden test case list. Only the
// hidden cases ever reach the problem store; the rest is returned to the
// client as-is.
type GeneratedProblem struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Constraints     []string         `json:"constraints"`
	Examples        []model.Example  `json:"examples"`
	HiddenTestCases []model.TestCase `json:"hidden_test_cases"`
}

// Client is a thin adapter over the generator service. Prompting and model
// selection are the generator's concern, not ours.
type Client struct {
	url  string
	http *http.Client
	log  *zap.SugaredLogger
}

func NewClient(url string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

type generateRequest struct {
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

func (c *Client) Generate(ctx context.Context, difficulty, topic string) (*GeneratedProblem, error) {
	body, err := json.Marshal(generateRequest{Difficulty: difficulty, Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("problem generator unreachable", "error", err)
		return nil, fmt.Errorf("problem generator unreachable: %w", common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warnw("problem generator error", "status", resp.StatusCode, "body", string(msg))
		return nil, fmt.Errorf("problem generator returned %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(msg)), common.ErrServiceUnavailable)
	}

	var gen GeneratedProblem
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("decode generated problem: %w", err)
	}
	return &gen, nil
}
