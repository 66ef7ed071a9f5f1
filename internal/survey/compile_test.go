package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petSurveyJSON = `{
	"id": "pets",
	"title": "Pet owners",
	"version": 2,
	"startQuestionId": "q1",
	"questions": [
		{
			"id": "q1",
			"type": "singleChoice",
			"text": "Do you own a pet?",
			"required": true,
			"options": [
				{ "id": "yes", "label": "Yes", "nextQuestionId": "q2" },
				{ "id": "no", "label": "No", "nextQuestionId": "q3" }
			]
		},
		{
			"id": "q2",
			"type": "multiChoice",
			"text": "Which pets?",
			"required": true,
			"minSelect": 1,
			"maxSelect": 2,
			"nextQuestionId": "q3",
			"options": [
				{ "id": "dog", "label": "Dog" },
				{ "id": "cat", "label": "Cat" },
				{ "id": "fish", "label": "Fish" }
			]
		},
		{
			"id": "q3",
			"type": "text",
			"text": "Anything else?",
			"required": false,
			"nextQuestionId": null
		}
	]
}`

func compile(t *testing.T, filename, src string) ([]*Survey, error) {
	t.Helper()
	c, err := NewCompiler()
	require.NoError(t, err)
	return c.CompileFile(filename, []byte(src))
}

func TestCompileFile_JSON(t *testing.T) {
	surveys, err := compile(t, "pets.json", petSurveyJSON)
	require.NoError(t, err)
	require.Len(t, surveys, 1)

	s := surveys[0]
	assert.Equal(t, "pets", s.ID)
	assert.Equal(t, "Pet owners", s.Title)
	assert.Equal(t, 2, s.Version)
	assert.Equal(t, "q1", s.StartQuestionID)
	require.Len(t, s.Questions(), 3)

	q1, ok := s.Question("q1")
	require.True(t, ok)
	single, ok := q1.(*SingleChoiceQuestion)
	require.True(t, ok)
	assert.True(t, single.IsRequired())
	assert.Equal(t, []Option{
		{ID: "yes", Label: "Yes", NextQuestionID: "q2"},
		{ID: "no", Label: "No", NextQuestionID: "q3"},
	}, single.Options)

	q2, _ := s.Question("q2")
	multi, ok := q2.(*MultiChoiceQuestion)
	require.True(t, ok)
	assert.Equal(t, 1, multi.MinSelect)
	assert.Equal(t, 2, multi.MaxSelect)
	assert.Equal(t, "q3", multi.NextQuestionID)
	assert.Len(t, multi.Options, 3)

	q3, _ := s.Question("q3")
	text, ok := q3.(*TextQuestion)
	require.True(t, ok)
	assert.False(t, text.IsRequired())
	assert.Empty(t, text.NextQuestionID, "null edge is terminal")
}

func TestCompileFile_CUE(t *testing.T) {
	src := `
id:              "feedback"
title:           "Feedback"
startQuestionId: "comment"
questions: [{
	id:   "comment"
	type: "text"
	text: "Tell us more"
}]
`
	surveys, err := compile(t, "feedback.cue", src)
	require.NoError(t, err)
	require.Len(t, surveys, 1)

	s := surveys[0]
	assert.Equal(t, 1, s.Version, "version defaults to 1")
	q, ok := s.Question("comment")
	require.True(t, ok)
	assert.Equal(t, TypeText, q.Type())
	assert.False(t, q.IsRequired(), "required defaults to false")
}

func TestCompileFile_YAML(t *testing.T) {
	src := `
id: coffee
title: Coffee
version: 1
startQuestionId: size
questions:
  - id: size
    type: singleChoice
    text: Which size?
    options:
      - id: small
        label: Small
      - id: large
        label: Large
        nextQuestionId: extras
  - id: extras
    type: multiChoice
    text: Extras?
    minSelect: 0
    maxSelect: 2
    options:
      - id: milk
        label: Milk
      - id: sugar
        label: Sugar
`
	surveys, err := compile(t, "coffee.yaml", src)
	require.NoError(t, err)
	require.Len(t, surveys, 1)

	q, ok := surveys[0].Question("size")
	require.True(t, ok)
	single := q.(*SingleChoiceQuestion)
	assert.Empty(t, single.Options[0].NextQuestionID)
	assert.Equal(t, "extras", single.Options[1].NextQuestionID)
}

func TestCompileFile_KeyedDocument(t *testing.T) {
	src := `{
		"a": { "id": "a", "title": "A", "version": 1, "startQuestionId": "t",
		       "questions": [{ "id": "t", "type": "text", "text": "?" }] },
		"b": { "id": "b", "title": "B", "version": 1, "startQuestionId": "t",
		       "questions": [{ "id": "t", "type": "text", "text": "?" }] }
	}`
	surveys, err := compile(t, "survey.json", src)
	require.NoError(t, err)
	require.Len(t, surveys, 2)
	assert.Equal(t, "a", surveys[0].ID)
	assert.Equal(t, "b", surveys[1].ID)
}

func TestCompileFile_KeyedDocumentIDMismatch(t *testing.T) {
	src := `{
		"a": { "id": "other", "title": "A", "version": 1, "startQuestionId": "t",
		       "questions": [{ "id": "t", "type": "text", "text": "?" }] }
	}`
	_, err := compile(t, "survey.json", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `declares id "other"`)
}

func TestCompileFile_SchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unknown question type",
			src: `{"id":"s","title":"S","startQuestionId":"q","questions":[
				{"id":"q","type":"rating","text":"?"}]}`,
		},
		{
			name: "single choice not required",
			src: `{"id":"s","title":"S","startQuestionId":"q","questions":[
				{"id":"q","type":"singleChoice","text":"?","required":false,"options":[]}]}`,
		},
		{
			name: "multi choice missing bounds",
			src: `{"id":"s","title":"S","startQuestionId":"q","questions":[
				{"id":"q","type":"multiChoice","text":"?","options":[]}]}`,
		},
		{
			name: "unknown field",
			src: `{"id":"s","title":"S","startQuestionId":"q","questions":[
				{"id":"q","type":"text","text":"?","placeholder":"x"}]}`,
		},
		{
			name: "no questions",
			src:  `{"id":"s","title":"S","startQuestionId":"q","questions":[]}`,
		},
		{
			name: "empty survey id",
			src: `{"id":"","title":"S","startQuestionId":"q","questions":[
				{"id":"q","type":"text","text":"?"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, "bad.json", tt.src)
			assert.Error(t, err)
		})
	}
}

func TestCompileFile_StructuralRejections(t *testing.T) {
	src := `{"id":"s","title":"S","startQuestionId":"missing","questions":[
		{"id":"q","type":"multiChoice","text":"?","minSelect":2,"maxSelect":1,
		 "options":[{"id":"a","label":"A"},{"id":"a","label":"A again"}]}]}`

	_, err := compile(t, "bad.json", src)
	require.Error(t, err)

	var invalid *InvalidSurveyError
	require.ErrorAs(t, err, &invalid)

	codes := make([]string, 0, len(invalid.Errors))
	for _, e := range invalid.Errors {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []string{ErrDuplicateOptionID, ErrSelectBounds, ErrStartQuestionMissing}, codes)
}

func TestCompileFile_UnsupportedExtension(t *testing.T) {
	_, err := compile(t, "survey.toml", `id = "x"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported survey format")
}
