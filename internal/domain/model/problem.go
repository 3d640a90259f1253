package model

import "time"

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is the public view of a generated problem. Hidden test cases are
// never attached to it; they live only in the problem store.
type Problem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Difficulty  ProblemDifficulty `json:"difficulty,omitempty"`
	Topic       string            `json:"topic,omitempty"`
	Constraints []string          `json:"constraints,omitempty"`
	Examples    []Example         `json:"examples,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Example is a visible sample shown alongside the problem statement.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// TestCase is a hidden (input, expected output) pair used only for grading.
// Order matters: grading evaluates cases in sequence and reports failures by
// 1-based index.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}
