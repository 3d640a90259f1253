package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeprep/internal/app/judge"
	"codeprep/internal/app/store"
	"codeprep/internal/common"
	"codeprep/internal/domain/model"
	"codeprep/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MsgProblemNotFound is the client-visible message for unknown or expired
// problem ids.
const MsgProblemNotFound = "Problem not found or has expired."

// Executor abstracts the execution client so tests can count and script
// backend calls.
type Executor interface {
	Execute(ctx context.Context, code string, lang judge.Language, stdin string) (*judge.Result, error)
}

// GradingService drives one sequential, fail-fast grading attempt per call.
// Case executions happen in stored order; the first failure terminates the
// attempt, so the backend is invoked at most caseIndex times.
type GradingService struct {
	store    store.ProblemStore
	registry *judge.Registry
	executor Executor
	attempts repository.AttemptRepository // optional; nil disables history
	log      *zap.SugaredLogger
}

func NewGradingService(
	problemStore store.ProblemStore,
	registry *judge.Registry,
	executor Executor,
	attempts repository.AttemptRepository,
	log *zap.SugaredLogger,
) *GradingService {
	return &GradingService{
		store:    problemStore,
		registry: registry,
		executor: executor,
		attempts: attempts,
		log:      log,
	}
}

// Grade evaluates the user's code against the problem's hidden test cases.
// Every outcome is a Verdict; nothing unstructured escapes this boundary.
// On full success the problem is evicted from the store, so the id cannot be
// graded again. Any failure leaves the entry intact for a retry.
func (s *GradingService) Grade(ctx context.Context, userID *string, problemID, code, languageName string) model.Verdict {
	verdict := s.grade(ctx, problemID, code, languageName)
	s.recordAttempt(ctx, userID, problemID, languageName, verdict)
	return verdict
}

func (s *GradingService) grade(ctx context.Context, problemID, code, languageName string) model.Verdict {
	cases, err := s.store.Get(ctx, problemID)
	if err != nil {
		return model.Verdict{Status: model.VerdictError, Message: MsgProblemNotFound}
	}

	// Resolve the language before any execution: an unsupported language
	// skips every case.
	lang, err := s.registry.Resolve(languageName)
	if err != nil {
		return model.Verdict{
			Status:  model.VerdictFail,
			Kind:    model.FailUnsupportedLanguage,
			Message: fmt.Sprintf("Unsupported language: %s", languageName),
		}
	}

	for i, tc := range cases {
		caseIndex := i + 1 // reported 1-based

		res, err := s.executor.Execute(ctx, code, lang, tc.Input)
		if err != nil {
			// Backend faults (timeout, unreachable, protocol) are terminal
			// for the attempt; no retry here.
			s.log.Warnw("execution failed", "problem_id", problemID, "case", caseIndex, "error", err)
			return model.Verdict{
				Status:    model.VerdictFail,
				Kind:      model.FailRuntimeError,
				Message:   fmt.Sprintf("Runtime Error on test case %d", caseIndex),
				CaseIndex: caseIndex,
				Details:   err.Error(),
			}
		}

		if res.Stderr != "" {
			return model.Verdict{
				Status:    model.VerdictFail,
				Kind:      model.FailRuntimeError,
				Message:   fmt.Sprintf("Runtime Error on test case %d", caseIndex),
				CaseIndex: caseIndex,
				Details:   res.Stderr,
			}
		}

		actual := strings.TrimSpace(res.Stdout)
		expected := strings.TrimSpace(tc.ExpectedOutput)
		if actual != expected {
			// Only this one case's hidden data is ever disclosed.
			return model.Verdict{
				Status:    model.VerdictFail,
				Kind:      model.FailWrongAnswer,
				Message:   fmt.Sprintf("Wrong Answer on test case %d", caseIndex),
				CaseIndex: caseIndex,
				Input:     tc.Input,
				Output:    actual,
				Expected:  expected,
			}
		}
	}

	if err := s.store.Delete(ctx, problemID); err != nil {
		s.log.Errorw("failed to evict solved problem", "problem_id", problemID, "error", err)
	}
	return model.Verdict{
		Status:      model.VerdictSuccess,
		Message:     fmt.Sprintf("%d test cases passed", len(cases)),
		CasesPassed: len(cases),
	}
}

// recordAttempt writes history best-effort; it never changes the verdict.
func (s *GradingService) recordAttempt(ctx context.Context, userID *string, problemID, languageName string, v model.Verdict) {
	if s.attempts == nil {
		return
	}
	attempt := &model.Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProblemID: problemID,
		Language:  languageName,
		Status:    v.Status,
		Kind:      v.Kind,
		Message:   v.Message,
	}
	if v.CaseIndex > 0 {
		idx := v.CaseIndex
		attempt.CaseIndex = &idx
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		s.log.Warnw("failed to record attempt", "problem_id", problemID, "error", err)
	}
}

// RunResult is the outcome of one ad-hoc execution with caller-supplied
// stdin.
type RunResult struct {
	Output   string `json:"output"`
	Error    string `json:"error"`
	ExitCode int    `json:"exit_code"`
}

// Run executes code once against the given stdin, outside any problem.
func (s *GradingService) Run(ctx context.Context, code, languageName, input string) (*RunResult, error) {
	lang, err := s.registry.Resolve(languageName)
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q: %w", languageName, common.ErrBadRequest)
	}

	res, err := s.executor.Execute(ctx, code, lang, input)
	if err != nil {
		if errors.Is(err, judge.ErrBackendTimeout) || errors.Is(err, judge.ErrBackendUnavailable) {
			return nil, fmt.Errorf("%v: %w", err, common.ErrServiceUnavailable)
		}
		return nil, err
	}

	out := &RunResult{Output: res.Stdout, Error: res.Stderr}
	if res.Stderr != "" {
		out.ExitCode = 1
	}
	return out, nil
}
