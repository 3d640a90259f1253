package judge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned by Resolve for names outside the
// registry. Callers surface it as a client error; it is never retryable
// without changing the input.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language pairs a user-facing name with the execution backend's numeric id.
type Language struct {
	Name string
	ID   int
}

// defaultLanguages maps lowercase names to Judge0 CE language ids.
var defaultLanguages = map[string]int{
	"python":     71,
	"javascript": 63,
	"c":          50,
	"cpp":        54,
	"java":       62,
	"swift":      83,
	"kotlin":     78,
}

// Registry resolves free-text language names to backend ids. The set is fixed
// at construction; overrides come from configuration, not code.
type Registry struct {
	byName map[string]int
}

func NewRegistry(overrides map[string]int) *Registry {
	byName := make(map[string]int, len(defaultLanguages)+len(overrides))
	for name, id := range defaultLanguages {
		byName[name] = id
	}
	for name, id := range overrides {
		byName[strings.ToLower(name)] = id
	}
	return &Registry{byName: byName}
}

// Resolve is case-insensitive exact match.
func (r *Registry) Resolve(name string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	id, ok := r.byName[key]
	if !ok {
		return Language{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
	}
	return Language{Name: key, ID: id}, nil
}

// Names lists the supported language names, for error messages and docs.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
