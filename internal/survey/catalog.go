package survey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/waypoint/internal/fault"
)

// Catalog is a read-only set of surveys keyed by id.
// It is safe for concurrent use once built.
type Catalog struct {
	byID map[string]*Survey
	ids  []string
}

// NewCatalog indexes surveys. Duplicate ids are an error.
func NewCatalog(surveys ...*Survey) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Survey, len(surveys))}
	for _, s := range surveys {
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate survey id %q", s.ID)
		}
		c.byID[s.ID] = s
		c.ids = append(c.ids, s.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// LoadFile compiles one survey document into a catalog.
func LoadFile(path string) (*Catalog, error) {
	return LoadFiles(path)
}

// LoadFiles compiles the given survey documents into one catalog.
// A survey id declared in more than one file is an error.
func LoadFiles(paths ...string) (*Catalog, error) {
	compiler, err := NewCompiler()
	if err != nil {
		return nil, err
	}
	var all []*Survey
	for _, path := range paths {
		surveys, err := loadFile(compiler, path)
		if err != nil {
			return nil, err
		}
		all = append(all, surveys...)
	}
	return NewCatalog(all...)
}

// LoadDir compiles every survey document found under dir.
// Files are read in lexical order; subdirectories are walked.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("surveys directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := FindSurveyFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan surveys directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no survey files found in %s", dir)
	}
	return LoadFiles(files...)
}

// FindSurveyFiles lists the survey documents under dir.
func FindSurveyFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if IsSurveyFile(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// IsSurveyFile reports whether path has a survey document extension.
func IsSurveyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func loadFile(compiler *Compiler, path string) ([]*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey file: %w", err)
	}
	surveys, err := compiler.CompileFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return surveys, nil
}

// GetSurvey returns the survey with the given id.
func (c *Catalog) GetSurvey(ctx context.Context, id string) (*Survey, error) {
	if id == "" {
		return nil, fault.BadInputf("Survey ID is required")
	}
	s, ok := c.byID[id]
	if !ok {
		return nil, fault.NotFoundf("Survey(%s) not found", id)
	}
	return s, nil
}

// GetQuestion returns one question of a survey.
func (c *Catalog) GetQuestion(ctx context.Context, surveyID, questionID string) (Question, error) {
	s, err := c.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	q, ok := s.Question(questionID)
	if !ok {
		return nil, fault.NotFoundf("Question(%s) of Survey(%s) not found", questionID, surveyID)
	}
	return q, nil
}

// ListSurveys returns every survey ordered by id.
// Returns an empty slice (not nil) for an empty catalog.
func (c *Catalog) ListSurveys(ctx context.Context) ([]*Survey, error) {
	out := make([]*Survey, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out, nil
}
