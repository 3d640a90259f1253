package service

import (
	"context"
	"errors"
	"testing"

	"codeprep/internal/app/generator"
	"codeprep/internal/app/store"
	"codeprep/internal/common"
	"codeprep/internal/domain/model"
	"codeprep/internal/platform/logging"
)

type fakeGenerator struct {
	problem *generator.GeneratedProblem
	err     error
}

func (f *fakeGenerator) Generate(context.Context, string, string) (*generator.GeneratedProblem, error) {
	return f.problem, f.err
}

func TestGenerateStoresHiddenCasesUnderFreshID(t *testing.T) {
	gen := &fakeGenerator{problem: &generator.GeneratedProblem{
		Title:       "Two Sum",
		Description: "Find two numbers that add up to a target.",
		Constraints: []string{"2 <= n <= 10^4"},
		Examples:    []model.Example{{Input: "[2,7,11,15], 9", Output: "[0,1]"}},
		HiddenTestCases: []model.TestCase{
			{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"},
			{Input: "3 2 4\n6", ExpectedOutput: "1 2"},
		},
	}}
	s := store.NewMemoryStore()
	svc := NewProblemService(gen, s, logging.NewNop())

	p, err := svc.Generate(context.Background(), "Easy", "arrays")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.ID == "" {
		t.Fatal("problem id is empty")
	}
	if p.Title != "Two Sum" || p.Slug != "two-sum" {
		t.Fatalf("problem = %+v", p)
	}
	if p.Difficulty != model.DifficultyEasy || p.Topic != "arrays" {
		t.Fatalf("difficulty/topic = %q/%q", p.Difficulty, p.Topic)
	}

	cases, err := s.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("hidden cases not stored: %v", err)
	}
	if len(cases) != 2 || cases[0].ExpectedOutput != "0 1" {
		t.Fatalf("stored cases = %+v", cases)
	}
}

func TestGenerateRejectsProblemWithoutHiddenCases(t *testing.T) {
	gen := &fakeGenerator{problem: &generator.GeneratedProblem{
		Title:       "Broken",
		Description: "No way to grade this.",
	}}
	svc := NewProblemService(gen, store.NewMemoryStore(), logging.NewNop())

	_, err := svc.Generate(context.Background(), "Medium", "graphs")
	if !errors.Is(err, common.ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestGenerateRejectsIncompleteProblem(t *testing.T) {
	gen := &fakeGenerator{problem: &generator.GeneratedProblem{
		Description:     "missing a title",
		HiddenTestCases: []model.TestCase{{Input: "1", ExpectedOutput: "1"}},
	}}
	svc := NewProblemService(gen, store.NewMemoryStore(), logging.NewNop())

	if _, err := svc.Generate(context.Background(), "Easy", ""); !errors.Is(err, common.ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestGeneratePropagatesGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: common.Errorf("generator unreachable: %w", common.ErrServiceUnavailable)}
	svc := NewProblemService(gen, store.NewMemoryStore(), logging.NewNop())

	if _, err := svc.Generate(context.Background(), "Hard", "dp"); !errors.Is(err, common.ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}
