package survey

import (
	"encoding/json"
	"fmt"
)

// questionJSON is the wire form of every question variant.
// Field names follow the authored documents so a stored snapshot reads the
// same as the survey it was taken from.
type questionJSON struct {
	ID             string       `json:"id"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	Required       bool         `json:"required"`
	Options        []optionJSON `json:"options,omitempty"`
	MinSelect      *int         `json:"minSelect,omitempty"`
	MaxSelect      *int         `json:"maxSelect,omitempty"`
	NextQuestionID *string      `json:"nextQuestionId,omitempty"`
}

type optionJSON struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	NextQuestionID *string `json:"nextQuestionId,omitempty"`
}

// MarshalQuestion encodes q as JSON with a "type" discriminator.
func MarshalQuestion(q Question) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("marshal question: nil question")
	}

	doc := questionJSON{
		ID:       q.QuestionID(),
		Type:     q.Type(),
		Text:     q.Prompt(),
		Required: q.IsRequired(),
	}

	switch q := q.(type) {
	case *SingleChoiceQuestion:
		doc.Options = encodeOptions(q.Options, true)
	case *MultiChoiceQuestion:
		doc.Options = encodeOptions(q.Options, false)
		doc.MinSelect = &q.MinSelect
		doc.MaxSelect = &q.MaxSelect
		doc.NextQuestionID = optionalString(q.NextQuestionID)
	case *TextQuestion:
		doc.NextQuestionID = optionalString(q.NextQuestionID)
	default:
		return nil, fmt.Errorf("marshal question: unsupported type %T", q)
	}

	return json.Marshal(doc)
}

// UnmarshalQuestion decodes a question produced by MarshalQuestion.
// An unknown or missing "type" is an error.
func UnmarshalQuestion(data []byte) (Question, error) {
	var doc questionJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal question: %w", err)
	}

	switch doc.Type {
	case TypeSingleChoice:
		return &SingleChoiceQuestion{
			ID:      doc.ID,
			Text:    doc.Text,
			Options: decodeOptions(doc.Options),
		}, nil
	case TypeMultiChoice:
		q := &MultiChoiceQuestion{
			ID:             doc.ID,
			Text:           doc.Text,
			Required:       doc.Required,
			Options:        decodeOptions(doc.Options),
			NextQuestionID: derefString(doc.NextQuestionID),
		}
		if doc.MinSelect != nil {
			q.MinSelect = *doc.MinSelect
		}
		if doc.MaxSelect != nil {
			q.MaxSelect = *doc.MaxSelect
		}
		return q, nil
	case TypeText:
		return &TextQuestion{
			ID:             doc.ID,
			Text:           doc.Text,
			Required:       doc.Required,
			NextQuestionID: derefString(doc.NextQuestionID),
		}, nil
	default:
		return nil, fmt.Errorf("unmarshal question: unknown question type %q", doc.Type)
	}
}

func encodeOptions(options []Option, withEdges bool) []optionJSON {
	out := make([]optionJSON, len(options))
	for i, o := range options {
		out[i] = optionJSON{ID: o.ID, Label: o.Label}
		if withEdges {
			out[i].NextQuestionID = optionalString(o.NextQuestionID)
		}
	}
	return out
}

func decodeOptions(options []optionJSON) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = Option{ID: o.ID, Label: o.Label, NextQuestionID: derefString(o.NextQuestionID)}
	}
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
