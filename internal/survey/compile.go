package survey

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// CompileError is a document error with its CUE position when known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compiler turns survey documents into Surveys.
// A Compiler owns one CUE context and is not safe for concurrent use.
type Compiler struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewCompiler creates a compiler bound to the embedded document schema.
func NewCompiler() (*Compiler, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile survey schema: %w", err)
	}
	schema := root.LookupPath(cue.ParsePath("#Survey"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Survey: %w", err)
	}
	return &Compiler{ctx: ctx, schema: schema}, nil
}

// CompileFile compiles the document held in data. The format is chosen by
// the extension of filename: .cue, .json, .yaml or .yml.
//
// A document is either one survey or a struct of surveys keyed by id.
func (c *Compiler) CompileFile(filename string, data []byte) ([]*Survey, error) {
	v, err := c.build(filename, data)
	if err != nil {
		return nil, err
	}

	if v.LookupPath(cue.ParsePath("questions")).Exists() {
		s, err := c.compileSurvey(v)
		if err != nil {
			return nil, err
		}
		return []*Survey{s}, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var surveys []*Survey
	for iter.Next() {
		s, err := c.compileSurvey(iter.Value())
		if err != nil {
			return nil, err
		}
		if s.ID != iter.Label() {
			return nil, &CompileError{
				Field:   iter.Label(),
				Message: fmt.Sprintf("survey keyed %q declares id %q", iter.Label(), s.ID),
				Pos:     iter.Value().Pos(),
			}
		}
		surveys = append(surveys, s)
	}
	if len(surveys) == 0 {
		return nil, &CompileError{Field: filename, Message: "no surveys in document"}
	}
	return surveys, nil
}

func (c *Compiler) build(filename string, data []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue", ".json":
		v := c.ctx.CompileBytes(data, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	case ".yaml", ".yml":
		var doc any
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&doc); err != nil {
			return cue.Value{}, fmt.Errorf("%s: failed to parse YAML: %w", filename, err)
		}
		v := c.ctx.Encode(doc)
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	default:
		return cue.Value{}, fmt.Errorf("%s: unsupported survey format", filename)
	}
}

func (c *Compiler) compileSurvey(doc cue.Value) (*Survey, error) {
	v := c.schema.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	id, err := stringField(v, "id")
	if err != nil {
		return nil, err
	}
	title, err := stringField(v, "title")
	if err != nil {
		return nil, err
	}
	start, err := stringField(v, "startQuestionId")
	if err != nil {
		return nil, err
	}
	version := 1
	if f, ok := lookup(v, "version"); ok {
		n, err := f.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		version = int(n)
	}

	list, err := v.LookupPath(cue.ParsePath("questions")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var questions []Question
	for list.Next() {
		q, err := compileQuestion(list.Value())
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return New(id, title, version, start, questions)
}

func compileQuestion(v cue.Value) (Question, error) {
	typ, err := stringField(v, "type")
	if err != nil {
		return nil, err
	}
	id, err := stringField(v, "id")
	if err != nil {
		return nil, err
	}
	text, err := stringField(v, "text")
	if err != nil {
		return nil, err
	}
	required, err := boolField(v, "required")
	if err != nil {
		return nil, err
	}
	next, err := optionalStringField(v, "nextQuestionId")
	if err != nil {
		return nil, err
	}

	switch QuestionType(typ) {
	case TypeSingleChoice:
		options, err := compileOptions(v)
		if err != nil {
			return nil, err
		}
		return &SingleChoiceQuestion{ID: id, Text: text, Options: options}, nil
	case TypeMultiChoice:
		options, err := compileOptions(v)
		if err != nil {
			return nil, err
		}
		minSelect, err := intField(v, "minSelect")
		if err != nil {
			return nil, err
		}
		maxSelect, err := intField(v, "maxSelect")
		if err != nil {
			return nil, err
		}
		return &MultiChoiceQuestion{
			ID:             id,
			Text:           text,
			Required:       required,
			Options:        options,
			MinSelect:      minSelect,
			MaxSelect:      maxSelect,
			NextQuestionID: next,
		}, nil
	case TypeText:
		return &TextQuestion{ID: id, Text: text, Required: required, NextQuestionID: next}, nil
	default:
		return nil, &CompileError{Field: "type", Message: fmt.Sprintf("unknown question type %q", typ), Pos: v.Pos()}
	}
}

func compileOptions(v cue.Value) ([]Option, error) {
	list, err := v.LookupPath(cue.ParsePath("options")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	options := []Option{}
	for list.Next() {
		ov := list.Value()
		id, err := stringField(ov, "id")
		if err != nil {
			return nil, err
		}
		label, err := stringField(ov, "label")
		if err != nil {
			return nil, err
		}
		next, err := optionalStringField(ov, "nextQuestionId")
		if err != nil {
			return nil, err
		}
		options = append(options, Option{ID: id, Label: label, NextQuestionID: next})
	}
	return options, nil
}

// lookup returns the concrete, non-null value of field.
// Optional fields that were not set report false.
func lookup(v cue.Value, field string) (cue.Value, bool) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return f, false
	}
	if d, ok := f.Default(); ok {
		f = d
	}
	if !f.IsConcrete() || f.IsNull() {
		return f, false
	}
	return f, true
}

func stringField(v cue.Value, field string) (string, error) {
	f, ok := lookup(v, field)
	if !ok {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalStringField(v cue.Value, field string) (string, error) {
	f, ok := lookup(v, field)
	if !ok {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func boolField(v cue.Value, field string) (bool, error) {
	f, ok := lookup(v, field)
	if !ok {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func intField(v cue.Value, field string) (int, error) {
	f, ok := lookup(v, field)
	if !ok {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := f.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
