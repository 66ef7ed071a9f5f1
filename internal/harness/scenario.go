package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
)

// Scenario defines a conformance scenario: one session driven through a
// survey, with the expected outcome of every submission.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Surveys lists the survey documents to load.
	// Relative paths are resolved against the scenario file's directory.
	Surveys []string `yaml:"surveys"`

	// SurveyID is the survey the session is started on.
	SurveyID string `yaml:"survey_id"`

	// Steps are the submissions, in order.
	Steps []Step `yaml:"steps"`

	// Final checks the session after the last step.
	Final *FinalClause `yaml:"final,omitempty"`
}

// Step is a single submission.
type Step struct {
	// QuestionID is the question being answered.
	QuestionID string `yaml:"question_id"`

	// Answer is the raw submission. Exactly one of Answer and Skip is set.
	Answer *answer.RawAnswer `yaml:"answer,omitempty"`

	// Skip submits a null answer.
	Skip bool `yaml:"skip,omitempty"`

	// Expect is the expected outcome. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the outcome of a step.
//
// A step either succeeds (NextQuestionID or Completed) or fails with
// ErrorKind. ErrorContains is a substring match on the error message.
type ExpectClause struct {
	NextQuestionID string `yaml:"next_question_id,omitempty"`
	Completed      bool   `yaml:"completed,omitempty"`
	ErrorKind      string `yaml:"error_kind,omitempty"`
	ErrorContains  string `yaml:"error_contains,omitempty"`
}

// FinalClause specifies the session state after all steps.
type FinalClause struct {
	// Completed is the expected completion flag.
	Completed bool `yaml:"completed"`

	// Answers are the answered question ids in submission order.
	Answers []string `yaml:"answers"`
}

// expectsError reports whether the clause describes a failed step.
func (e *ExpectClause) expectsError() bool {
	return e != nil && e.ErrorKind != ""
}

// LoadScenario reads and parses a scenario YAML file.
// Survey paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving survey paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, surveyPath := range scenario.Surveys {
		if !filepath.IsAbs(surveyPath) && basePath != "" {
			scenario.Surveys[i] = filepath.Join(basePath, surveyPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Surveys) == 0 {
		return fmt.Errorf("surveys list is required and must be non-empty")
	}

	if s.SurveyID == "" {
		return fmt.Errorf("survey_id is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, surveyPath := range s.Surveys {
		if _, err := os.Stat(surveyPath); os.IsNotExist(err) {
			return fmt.Errorf("survey file not found: %s", surveyPath)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step.
func validateStep(index int, st *Step) error {
	if st.QuestionID == "" {
		return fmt.Errorf("steps[%d]: question_id is required", index)
	}
	if st.Skip && st.Answer != nil {
		return fmt.Errorf("steps[%d]: answer and skip are mutually exclusive", index)
	}
	if !st.Skip && st.Answer == nil {
		return fmt.Errorf("steps[%d]: answer is required (use skip: true for a null answer)", index)
	}

	e := st.Expect
	if e == nil {
		return nil
	}
	if e.ErrorKind != "" {
		switch fault.Kind(e.ErrorKind) {
		case fault.KindNotFound, fault.KindConflict, fault.KindBadInput, fault.KindCorruption:
		default:
			return fmt.Errorf("steps[%d].expect: unknown error_kind %q", index, e.ErrorKind)
		}
		if e.NextQuestionID != "" || e.Completed {
			return fmt.Errorf("steps[%d].expect: error_kind cannot be combined with next_question_id or completed", index)
		}
	}
	if e.ErrorContains != "" && e.ErrorKind == "" {
		return fmt.Errorf("steps[%d].expect: error_contains requires error_kind", index)
	}
	if e.Completed && e.NextQuestionID != "" {
		return fmt.Errorf("steps[%d].expect: a completed step has no next_question_id", index)
	}

	return nil
}
