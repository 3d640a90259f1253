package service

import (
	"context"
	"time"

	"codeprep/internal/app/generator"
	"codeprep/internal/app/store"
	"codeprep/internal/common"
	"codeprep/internal/domain/model"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ProblemGenerator abstracts the external generator service.
type ProblemGenerator interface {
	Generate(ctx context.Context, difficulty, topic string) (*generator.GeneratedProblem, error)
}

// ProblemService turns generator output into a stored, gradable problem. The
// hidden test cases go into the problem store under a fresh opaque id; the
// returned Problem carries everything else and never the hidden cases.
type ProblemService struct {
	gen   ProblemGenerator
	store store.ProblemStore
	log   *zap.SugaredLogger
}

func NewProblemService(gen ProblemGenerator, problemStore store.ProblemStore, log *zap.SugaredLogger) *ProblemService {
	return &ProblemService{gen: gen, store: problemStore, log: log}
}

func (s *ProblemService) Generate(ctx context.Context, difficulty, topic string) (*model.Problem, error) {
	gen, err := s.gen.Generate(ctx, difficulty, topic)
	if err != nil {
		return nil, err
	}

	if gen.Title == "" || gen.Description == "" {
		return nil, common.Errorf("generator returned incomplete problem: %w", common.ErrServiceUnavailable)
	}
	// A problem without hidden cases is ungradable; that is a generator
	// contract violation, not something grading handles later.
	if len(gen.HiddenTestCases) == 0 {
		return nil, common.Errorf("generator returned no hidden test cases: %w", common.ErrServiceUnavailable)
	}

	problem := &model.Problem{
		ID:          uuid.NewString(),
		Title:       gen.Title,
		Slug:        slug.Make(gen.Title),
		Description: gen.Description,
		Difficulty:  model.ProblemDifficulty(difficulty),
		Topic:       topic,
		Constraints: gen.Constraints,
		Examples:    gen.Examples,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Put(ctx, problem.ID, gen.HiddenTestCases); err != nil {
		return nil, common.Errorf("failed to store hidden test cases: %w", err)
	}

	s.log.Infow("problem generated", "problem_id", problem.ID, "slug", problem.Slug,
		"hidden_cases", len(gen.HiddenTestCases))
	return problem, nil
}
