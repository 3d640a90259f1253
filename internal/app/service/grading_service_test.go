package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"codeprep/internal/app/judge"
	"codeprep/internal/app/store"
	"codeprep/internal/common"
	"codeprep/internal/domain/model"
	"codeprep/internal/platform/logging"
)

// fakeExecutor scripts one result per call and records every stdin it was
// given, so tests can assert the exact number and order of backend calls.
type fakeExecutor struct {
	stdins []string
	script func(call int, stdin string) (*judge.Result, error)
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, _ judge.Language, stdin string) (*judge.Result, error) {
	call := len(f.stdins)
	f.stdins = append(f.stdins, stdin)
	return f.script(call, stdin)
}

func accepted(stdout string) (*judge.Result, error) {
	return &judge.Result{Stdout: stdout, StatusID: 3, StatusDescription: "Accepted"}, nil
}

func newGradingService(t *testing.T, cases map[string][]model.TestCase, exec *fakeExecutor) (*GradingService, store.ProblemStore) {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	for id, cs := range cases {
		if err := s.Put(ctx, id, cs); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return NewGradingService(s, judge.NewRegistry(nil), exec, nil, logging.NewNop()), s
}

func TestGradeUnknownProblemSkipsExecution(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("") }}
	svc, _ := newGradingService(t, nil, exec)

	v := svc.Grade(context.Background(), nil, "missing", "print(1)", "python")
	if v.Status != model.VerdictError {
		t.Fatalf("Status = %s, want error", v.Status)
	}
	if v.Message != MsgProblemNotFound {
		t.Fatalf("Message = %q", v.Message)
	}
	if len(exec.stdins) != 0 {
		t.Fatalf("executor invoked %d times for unknown problem", len(exec.stdins))
	}
}

func TestGradeUnsupportedLanguageSkipsAllCases(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("") }}
	svc, s := newGradingService(t, map[string][]model.TestCase{
		"p3": {{Input: "1", ExpectedOutput: "1"}},
	}, exec)

	v := svc.Grade(context.Background(), nil, "p3", "DISPLAY '1'", "cobol")
	if v.Status != model.VerdictFail || v.Kind != model.FailUnsupportedLanguage {
		t.Fatalf("verdict = %+v, want unsupported-language fail", v)
	}
	if !strings.Contains(v.Message, "cobol") {
		t.Fatalf("Message = %q, want the language name", v.Message)
	}
	if len(exec.stdins) != 0 {
		t.Fatalf("executor invoked %d times for unsupported language", len(exec.stdins))
	}
	if _, err := s.Get(context.Background(), "p3"); err != nil {
		t.Fatalf("store entry should survive the failed attempt: %v", err)
	}
}

func TestGradeAllCasesPassEvictsProblem(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("5\n") }}
	svc, _ := newGradingService(t, map[string][]model.TestCase{
		"p1": {{Input: "2 3", ExpectedOutput: "5"}},
	}, exec)
	ctx := context.Background()

	v := svc.Grade(ctx, nil, "p1", "print(sum(map(int, input().split())))", "python")
	if v.Status != model.VerdictSuccess {
		t.Fatalf("verdict = %+v, want success", v)
	}
	if v.Message != "1 test cases passed" {
		t.Fatalf("Message = %q", v.Message)
	}
	if v.CasesPassed != 1 {
		t.Fatalf("CasesPassed = %d, want 1", v.CasesPassed)
	}

	// Terminal success evicts: the same id must never grade again.
	v = svc.Grade(ctx, nil, "p1", "print(5)", "python")
	if v.Status != model.VerdictError || v.Message != MsgProblemNotFound {
		t.Fatalf("second grade = %+v, want not-found error", v)
	}
}

func TestGradeWrongAnswerStopsAtFirstMismatch(t *testing.T) {
	// Code that echoes its input: case 1 (1 -> 1) passes, case 2 (2 -> 4)
	// fails, case 3 must never run.
	exec := &fakeExecutor{script: func(_ int, stdin string) (*judge.Result, error) {
		return accepted(stdin + "\n")
	}}
	svc, s := newGradingService(t, map[string][]model.TestCase{
		"p2": {
			{Input: "1", ExpectedOutput: "1"},
			{Input: "2", ExpectedOutput: "4"},
			{Input: "3", ExpectedOutput: "9"},
		},
	}, exec)
	ctx := context.Background()

	v := svc.Grade(ctx, nil, "p2", "print(input())", "python")
	if v.Status != model.VerdictFail || v.Kind != model.FailWrongAnswer {
		t.Fatalf("verdict = %+v, want wrong-answer fail", v)
	}
	if v.CaseIndex != 2 {
		t.Fatalf("CaseIndex = %d, want 2", v.CaseIndex)
	}
	if v.Message != "Wrong Answer on test case 2" {
		t.Fatalf("Message = %q", v.Message)
	}
	if v.Input != "2" || v.Output != "2" || v.Expected != "4" {
		t.Fatalf("disclosure triple = (%q, %q, %q)", v.Input, v.Output, v.Expected)
	}
	if len(exec.stdins) != 2 {
		t.Fatalf("executor invoked %d times, want exactly 2", len(exec.stdins))
	}
	if _, err := s.Get(ctx, "p2"); err != nil {
		t.Fatalf("store entry should survive a wrong answer: %v", err)
	}
}

func TestGradeRuntimeErrorStopsImmediately(t *testing.T) {
	exec := &fakeExecutor{script: func(call int, _ string) (*judge.Result, error) {
		if call == 0 {
			return accepted("1\n")
		}
		return &judge.Result{Stderr: "ZeroDivisionError: division by zero", StatusID: 11}, nil
	}}
	svc, s := newGradingService(t, map[string][]model.TestCase{
		"p4": {
			{Input: "1", ExpectedOutput: "1"},
			{Input: "0", ExpectedOutput: "0"},
			{Input: "2", ExpectedOutput: "2"},
		},
	}, exec)
	ctx := context.Background()

	v := svc.Grade(ctx, nil, "p4", "print(1//int(input()))", "python")
	if v.Status != model.VerdictFail || v.Kind != model.FailRuntimeError {
		t.Fatalf("verdict = %+v, want runtime-error fail", v)
	}
	if v.CaseIndex != 2 || v.Message != "Runtime Error on test case 2" {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Details != "ZeroDivisionError: division by zero" {
		t.Fatalf("Details = %q", v.Details)
	}
	if len(exec.stdins) != 2 {
		t.Fatalf("executor invoked %d times, want exactly 2", len(exec.stdins))
	}
	if _, err := s.Get(ctx, "p4"); err != nil {
		t.Fatalf("store entry should survive a runtime error: %v", err)
	}
}

func TestGradeBackendFaultIsTerminalForAttempt(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) {
		return nil, fmt.Errorf("%w: dial tcp: connection refused", judge.ErrBackendUnavailable)
	}}
	svc, s := newGradingService(t, map[string][]model.TestCase{
		"p5": {{Input: "1", ExpectedOutput: "1"}, {Input: "2", ExpectedOutput: "2"}},
	}, exec)
	ctx := context.Background()

	v := svc.Grade(ctx, nil, "p5", "print(input())", "python")
	if v.Status != model.VerdictFail || v.Kind != model.FailRuntimeError {
		t.Fatalf("verdict = %+v, want fail", v)
	}
	if v.CaseIndex != 1 {
		t.Fatalf("CaseIndex = %d, want 1", v.CaseIndex)
	}
	if len(exec.stdins) != 1 {
		t.Fatalf("executor invoked %d times, want exactly 1 (no retry)", len(exec.stdins))
	}
	if _, err := s.Get(ctx, "p5"); err != nil {
		t.Fatalf("store entry should survive a backend fault: %v", err)
	}
}

func TestGradeComparesTrimmedExactOutput(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		expected string
		pass     bool
	}{
		{"trailing newline ignored", "4\n", "4", true},
		{"trailing space ignored", "4 ", "4", true},
		{"leading whitespace ignored", "\n  4", "4", true},
		{"different value fails", "4 ", "5", false},
		{"interior whitespace matters", "4 2", "42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted(tt.stdout) }}
			svc, _ := newGradingService(t, map[string][]model.TestCase{
				"p": {{Input: "in", ExpectedOutput: tt.expected}},
			}, exec)

			v := svc.Grade(context.Background(), nil, "p", "code", "python")
			if got := v.Status == model.VerdictSuccess; got != tt.pass {
				t.Fatalf("stdout %q vs expected %q: verdict %+v", tt.stdout, tt.expected, v)
			}
		})
	}
}

func TestGradeRecordsAttempts(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("1\n") }}
	s := store.NewMemoryStore()
	if err := s.Put(context.Background(), "p1", []model.TestCase{{Input: "1", ExpectedOutput: "1"}}); err != nil {
		t.Fatal(err)
	}
	attempts := &fakeAttemptRepo{}
	svc := NewGradingService(s, judge.NewRegistry(nil), exec, attempts, logging.NewNop())

	user := "u1"
	v := svc.Grade(context.Background(), &user, "p1", "print(1)", "python")
	if v.Status != model.VerdictSuccess {
		t.Fatalf("verdict = %+v", v)
	}
	if len(attempts.created) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(attempts.created))
	}
	a := attempts.created[0]
	if a.ProblemID != "p1" || a.Status != model.VerdictSuccess || a.UserID == nil || *a.UserID != "u1" {
		t.Fatalf("recorded attempt = %+v", a)
	}
}

func TestGradeAttemptRecordingFailureDoesNotChangeVerdict(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("1\n") }}
	s := store.NewMemoryStore()
	if err := s.Put(context.Background(), "p1", []model.TestCase{{Input: "1", ExpectedOutput: "1"}}); err != nil {
		t.Fatal(err)
	}
	attempts := &fakeAttemptRepo{createErr: errors.New("db down")}
	svc := NewGradingService(s, judge.NewRegistry(nil), exec, attempts, logging.NewNop())

	v := svc.Grade(context.Background(), nil, "p1", "print(1)", "python")
	if v.Status != model.VerdictSuccess {
		t.Fatalf("verdict = %+v, want success despite history failure", v)
	}
}

func TestRunUnsupportedLanguage(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("") }}
	svc, _ := newGradingService(t, nil, exec)

	_, err := svc.Run(context.Background(), "code", "cobol", "")
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if len(exec.stdins) != 0 {
		t.Fatal("executor invoked for unsupported language")
	}
}

func TestRunReturnsOutputAndExitCode(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) { return accepted("hello\n") }}
	svc, _ := newGradingService(t, nil, exec)

	res, err := svc.Run(context.Background(), "print('hello')", "python", "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Output != "hello\n" || res.Error != "" || res.ExitCode != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunSurfacesStderrWithNonZeroExit(t *testing.T) {
	exec := &fakeExecutor{script: func(int, string) (*judge.Result, error) {
		return &judge.Result{Stderr: "NameError: name 'x' is not defined", StatusID: 11}, nil
	}}
	svc, _ := newGradingService(t, nil, exec)

	res, err := svc.Run(context.Background(), "print(x)", "python", "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 1 || res.Error == "" {
		t.Fatalf("result = %+v", res)
	}
}

type fakeAttemptRepo struct {
	created   []model.Attempt
	createErr error
}

func (f *fakeAttemptRepo) Create(_ context.Context, a *model.Attempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAttemptRepo) ListByUser(context.Context, string, string, int, int) ([]model.Attempt, error) {
	return f.created, nil
}
