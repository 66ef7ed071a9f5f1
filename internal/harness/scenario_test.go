package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a survey file and a scenario referencing it into a
// temp directory and returns the scenario path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.yaml"), []byte(petsYAML), 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const petsYAML = `
id: pets
title: Pet owners
startQuestionId: q1
questions:
  - id: q1
    type: singleChoice
    text: Do you own a pet?
    options:
      - { id: "yes", label: "Yes", nextQuestionId: q2 }
      - { id: "no", label: "No", nextQuestionId: q3 }
  - id: q2
    type: multiChoice
    text: Which pets?
    required: true
    minSelect: 1
    maxSelect: 2
    nextQuestionId: q3
    options:
      - { id: dog, label: Dog }
      - { id: cat, label: Cat }
  - id: q3
    type: text
    text: Anything else?
`

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: minimal
description: "One step"
surveys: [pets.yaml]
survey_id: pets
steps:
  - question_id: q1
    answer: { optionId: "no" }
    expect: { next_question_id: q3 }
  - question_id: q3
    skip: true
final:
  completed: true
  answers: [q1, q3]
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "pets.yaml"), s.Surveys[0])
	require.Len(t, s.Steps, 2)
	require.NotNil(t, s.Steps[0].Answer)
	require.NotNil(t, s.Steps[0].Answer.OptionID)
	assert.Equal(t, "no", *s.Steps[0].Answer.OptionID)
	assert.Equal(t, "q3", s.Steps[0].Expect.NextQuestionID)
	assert.True(t, s.Steps[1].Skip)
	assert.Nil(t, s.Steps[1].Answer)
	assert.Equal(t, []string{"q1", "q3"}, s.Final.Answers)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown field",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			body:    "description: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing surveys",
			body:    "name: x\ndescription: d\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true}]\n",
			wantErr: "surveys list is required",
		},
		{
			name:    "missing survey file",
			body:    "name: x\ndescription: d\nsurveys: [nope.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true}]\n",
			wantErr: "survey file not found",
		},
		{
			name:    "missing survey id",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsteps: [{question_id: q1, skip: true}]\n",
			wantErr: "survey_id is required",
		},
		{
			name:    "no steps",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: []\n",
			wantErr: "steps list is required",
		},
		{
			name:    "answer and skip",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true, answer: {optionId: a}}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "neither answer nor skip",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1}]\n",
			wantErr: "answer is required",
		},
		{
			name:    "unknown error kind",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true, expect: {error_kind: OOPS}}]\n",
			wantErr: `unknown error_kind "OOPS"`,
		},
		{
			name:    "error kind with next question",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true, expect: {error_kind: BAD_INPUT, next_question_id: q2}}]\n",
			wantErr: "cannot be combined",
		},
		{
			name:    "error contains without kind",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true, expect: {error_contains: Required}}]\n",
			wantErr: "error_contains requires error_kind",
		},
		{
			name:    "unknown answer field",
			body:    "name: x\ndescription: d\nsurveys: [pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, answer: {option: a}}]\n",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	path := writeScenario(t, "name: x\ndescription: d\nsurveys: [testdata/surveys/pets.yaml]\nsurvey_id: pets\nsteps: [{question_id: q1, skip: true}]\n")

	s, err := LoadScenarioWithBasePath(path, "../..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("../..", "testdata/surveys/pets.yaml"), s.Surveys[0])
}
