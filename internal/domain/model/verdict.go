package model

type VerdictStatus string

const (
	VerdictSuccess VerdictStatus = "success"
	VerdictFail    VerdictStatus = "fail"
	VerdictError   VerdictStatus = "error"
)

type FailKind string

const (
	FailWrongAnswer         FailKind = "WrongAnswer"
	FailRuntimeError        FailKind = "RuntimeError"
	FailUnsupportedLanguage FailKind = "UnsupportedLanguage"
)

// Verdict is the terminal outcome of one grading attempt. Exactly one of the
// detail groups is populated: Details for runtime errors, the
// Input/Output/Expected triple for wrong answers, CasesPassed on success.
type Verdict struct {
	Status    VerdictStatus
	Kind      FailKind // set when Status == VerdictFail
	Message   string
	CaseIndex int // 1-based index of the failing case, 0 otherwise

	Details  string // raw diagnostic text for runtime errors
	Input    string // failing case's stdin, wrong answers only
	Output   string // user's actual (trimmed) output
	Expected string // expected (trimmed) output

	CasesPassed int
}
