package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"
)

// Backend status ids (Judge0 convention). Anything else is an execution-level
// failure (compile error, runtime crash, limit exceeded, internal error) and
// gets surfaced through Result.Stderr.
const (
	statusAccepted    = 3
	statusWrongAnswer = 4
)

var (
	ErrBackendTimeout     = errors.New("execution backend timed out")
	ErrBackendUnavailable = errors.New("execution backend unavailable")
	ErrBackend            = errors.New("execution backend error")
)

// Result is the normalized outcome of one remote run. The stringly-typed
// backend status is folded into Stderr here, at the adapter edge, so nothing
// downstream branches on backend status text.
type Result struct {
	Stdout            string
	Stderr            string
	StatusID          int
	StatusDescription string
}

// Client performs one synchronous-wait execution per call against a sandboxed
// code-runner backend. A shared worker pool bounds concurrent round trips
// across all in-flight requests; within one grading attempt the caller still
// issues calls strictly one at a time.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	pool    *workerpool.WorkerPool
	log     *zap.SugaredLogger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, maxConcurrency int, log *zap.SugaredLogger) *Client {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		pool:    workerpool.New(maxConcurrency),
		log:     log,
	}
}

// Stop drains the worker pool. Call on shutdown.
func (c *Client) Stop() {
	c.pool.StopWait()
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
	Wait       bool   `json:"wait"`
}

type submissionResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs (code, language, stdin) once and returns the normalized
// result. Infrastructure faults come back as ErrBackendTimeout,
// ErrBackendUnavailable or ErrBackend; there is no retry at this layer.
func (c *Client) Execute(ctx context.Context, code string, lang Language, stdin string) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)
	c.pool.Submit(func() {
		res, err := c.execute(ctx, code, lang, stdin)
		ch <- outcome{res: res, err: err}
	})

	select {
	case out := <-ch:
		return out.res, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrBackendTimeout, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

func (c *Client) execute(ctx context.Context, code string, lang Language, stdin string) (*Result, error) {
	body, err := json.Marshal(submissionRequest{
		SourceCode: code,
		LanguageID: lang.ID,
		Stdin:      stdin,
		Wait:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal submission request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions?base64_encoded=false&wait=true", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warnw("execution backend timed out", "language", lang.Name)
			return nil, fmt.Errorf("%w: %v", ErrBackendTimeout, err)
		}
		c.log.Warnw("execution backend unreachable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var sub submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrBackend, err)
	}

	res := &Result{
		Stdout:            deref(sub.Stdout),
		Stderr:            deref(sub.Stderr),
		StatusID:          sub.Status.ID,
		StatusDescription: sub.Status.Description,
	}
	// Surface failures the backend reports only through its status or the
	// compiler stream, so callers see compile errors and limit kills even
	// when stderr is empty.
	if res.Stderr == "" {
		if co := deref(sub.CompileOutput); co != "" {
			res.Stderr = co
		} else if res.StatusID != statusAccepted && res.StatusID != statusWrongAnswer {
			res.Stderr = sub.Status.Description
		}
	}
	return res, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
