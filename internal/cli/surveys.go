package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/waypoint/internal/survey"
)

// SurveyInfo is one row of `surveys list`.
type SurveyInfo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Version         int    `json:"version"`
	StartQuestionID string `json:"startQuestionId"`
	Questions       int    `json:"questions"`
}

// SurveyDocument is the output of `surveys show`.
type SurveyDocument struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Version         int               `json:"version"`
	StartQuestionID string            `json:"startQuestionId"`
	Questions       []json.RawMessage `json:"questions"`
}

// Issue is one validation error or warning, tied to its file.
type Issue struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationReport is the output of `surveys validate`.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Files    int      `json:"files"`
	Surveys  []string `json:"surveys"`
	Errors   []Issue  `json:"errors,omitempty"`
	Warnings []Issue  `json:"warnings,omitempty"`
}

// NewSurveysCommand creates the surveys command group.
func NewSurveysCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveys",
		Short: "Inspect and validate survey documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [surveys-dir]",
		Short: "List the surveys in a directory",
		Long: `List every survey found in the directory.

The directory defaults to $` + EnvSurveys + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurveysList(rootOpts, surveysDirArg(args, 0), cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <survey-id> [surveys-dir]",
		Short: "Show one survey and its questions",
		Args:  cobra.RangeArgs(1, 2),
		Example: `  waypoint surveys show pets ./surveys
  waypoint surveys show pets --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurveysShow(rootOpts, args[0], surveysDirArg(args, 1), cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [surveys-dir]",
		Short: "Validate survey documents",
		Long: `Validate every survey document in the directory.

Reports schema and structural errors for each file, plus warnings for
branches that point at no question and questions no path reaches.

Exit codes:
  0 - All surveys valid (warnings allowed)
  1 - One or more errors
  2 - Command error (invalid paths, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurveysValidate(rootOpts, surveysDirArg(args, 0), cmd)
		},
	})

	return cmd
}

func surveysDirArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return envDefault(EnvSurveys, "")
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadCatalogOrReport loads the catalog, printing load errors in the
// configured format.
func loadCatalogOrReport(f *OutputFormatter, dir string) (*survey.Catalog, error) {
	catalog, err := LoadCatalog(dir)
	if err == nil {
		return catalog, nil
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if outErr := f.Error(loadErr.Code, loadErr.Message, nil); outErr != nil {
			return nil, outErr
		}
		return nil, WrapExitError(ExitCommandError, loadErr.Code, err)
	}
	return nil, WrapExitError(ExitCommandError, "failed to load surveys", err)
}

func runSurveysList(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	catalog, err := loadCatalogOrReport(f, dir)
	if err != nil {
		return err
	}

	surveys, err := catalog.ListSurveys(cmd.Context())
	if err != nil {
		return reportFault(f, err)
	}

	infos := make([]SurveyInfo, 0, len(surveys))
	for _, s := range surveys {
		infos = append(infos, SurveyInfo{
			ID:              s.ID,
			Title:           s.Title,
			Version:         s.Version,
			StartQuestionID: s.StartQuestionID,
			Questions:       len(s.Questions()),
		})
	}

	if f.Format == "json" {
		return f.Success(infos)
	}

	w := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(w, "%s\tv%d\t%d questions\t%s\n", info.ID, info.Version, info.Questions, info.Title)
	}
	return nil
}

func runSurveysShow(opts *RootOptions, surveyID, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	catalog, err := loadCatalogOrReport(f, dir)
	if err != nil {
		return err
	}

	s, err := catalog.GetSurvey(cmd.Context(), surveyID)
	if err != nil {
		return reportFault(f, err)
	}

	if f.Format == "json" {
		doc := SurveyDocument{
			ID:              s.ID,
			Title:           s.Title,
			Version:         s.Version,
			StartQuestionID: s.StartQuestionID,
			Questions:       []json.RawMessage{},
		}
		for _, q := range s.Questions() {
			data, err := survey.MarshalQuestion(q)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode question", err)
			}
			doc.Questions = append(doc.Questions, data)
		}
		return f.Success(doc)
	}

	writeSurveyText(cmd.OutOrStdout(), s)
	return nil
}

// writeSurveyText prints a survey as an indented outline of its questions
// and branches.
func writeSurveyText(w io.Writer, s *survey.Survey) {
	fmt.Fprintf(w, "%s (v%d): %s\n", s.ID, s.Version, s.Title)
	fmt.Fprintf(w, "start: %s\n", s.StartQuestionID)

	for _, q := range s.Questions() {
		req := "optional"
		if q.IsRequired() {
			req = "required"
		}
		fmt.Fprintf(w, "\n%s [%s, %s] %s\n", q.QuestionID(), q.Type(), req, q.Prompt())

		switch q := q.(type) {
		case *survey.SingleChoiceQuestion:
			for _, o := range q.Options {
				fmt.Fprintf(w, "  - %s %q -> %s\n", o.ID, o.Label, endOr(o.NextQuestionID))
			}
		case *survey.MultiChoiceQuestion:
			fmt.Fprintf(w, "  select %d..%d\n", q.MinSelect, q.MaxSelect)
			for _, o := range q.Options {
				fmt.Fprintf(w, "  - %s %q\n", o.ID, o.Label)
			}
			fmt.Fprintf(w, "  -> %s\n", endOr(q.NextQuestionID))
		case *survey.TextQuestion:
			fmt.Fprintf(w, "  -> %s\n", endOr(q.NextQuestionID))
		}
	}
}

func endOr(next string) string {
	if next == "" {
		return "(end)"
	}
	return next
}

func runSurveysValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	if dir == "" {
		return outputValidateError(f, ErrCodeNotFound, "surveys directory is required (argument or "+EnvSurveys+")")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return outputValidateError(f, ErrCodeNotFound, fmt.Sprintf("surveys directory not found: %s", dir))
	}

	files, err := survey.FindSurveyFiles(dir)
	if err != nil {
		return outputValidateError(f, ErrCodeScanError, fmt.Sprintf("error scanning directory: %v", err))
	}
	if len(files) == 0 {
		return outputValidateError(f, ErrCodeNoFiles, fmt.Sprintf("no survey files found in %s", dir))
	}

	compiler, err := survey.NewCompiler()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize compiler", err)
	}

	report := validateFiles(compiler, dir, files, f)

	if f.Format == "json" {
		if err := f.Success(report); err != nil {
			return err
		}
	} else {
		writeReportText(cmd.OutOrStdout(), report)
	}

	if !report.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(report.Errors)))
	}
	return nil
}

// validateFiles compiles each file on its own so one broken document does
// not hide the problems of the others.
func validateFiles(compiler *survey.Compiler, dir string, files []string, f *OutputFormatter) ValidationReport {
	report := ValidationReport{Files: len(files), Surveys: []string{}}
	declared := map[string]string{}

	for _, path := range files {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		f.VerboseLog("Validating %s", rel)

		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors = append(report.Errors, Issue{File: rel, Code: ErrCodeGeneric, Message: err.Error()})
			continue
		}

		surveys, err := compiler.CompileFile(path, data)
		if err != nil {
			report.Errors = append(report.Errors, compileIssues(rel, err)...)
			continue
		}

		for _, s := range surveys {
			if prev, dup := declared[s.ID]; dup {
				report.Errors = append(report.Errors, Issue{
					File:    rel,
					Field:   "id",
					Code:    ErrCodeBuildFailed,
					Message: fmt.Sprintf("survey id %q already declared in %s", s.ID, prev),
				})
				continue
			}
			declared[s.ID] = rel
			report.Surveys = append(report.Surveys, s.ID)

			for _, w := range survey.Lint(s) {
				report.Warnings = append(report.Warnings, Issue{
					File:    rel,
					Field:   s.ID + "." + w.Field,
					Code:    w.Code,
					Message: w.Message,
				})
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// compileIssues converts a compile failure into report entries.
func compileIssues(file string, err error) []Issue {
	var invalid *survey.InvalidSurveyError
	if errors.As(err, &invalid) {
		issues := make([]Issue, 0, len(invalid.Errors))
		for _, ve := range invalid.Errors {
			issues = append(issues, Issue{
				File:    file,
				Field:   invalid.SurveyID + "." + ve.Field,
				Code:    ve.Code,
				Message: ve.Message,
			})
		}
		return issues
	}

	var cerr *survey.CompileError
	if errors.As(err, &cerr) {
		issue := Issue{File: file, Field: cerr.Field, Code: ErrCodeBuildFailed, Message: cerr.Message}
		if cerr.Pos.IsValid() {
			issue.Line = cerr.Pos.Line()
		}
		return []Issue{issue}
	}

	return []Issue{{File: file, Code: ErrCodeBuildFailed, Message: err.Error()}}
}

func writeReportText(w io.Writer, report ValidationReport) {
	for _, e := range report.Errors {
		fmt.Fprintf(w, "✗ %s\n", formatIssue(e))
	}
	for _, wn := range report.Warnings {
		fmt.Fprintf(w, "! %s\n", formatIssue(wn))
	}
	if report.Valid {
		fmt.Fprintf(w, "✓ All surveys valid (%d survey(s) in %d file(s))\n", len(report.Surveys), report.Files)
		return
	}
	fmt.Fprintf(w, "\nValidation failed: %d error(s)\n", len(report.Errors))
}

func formatIssue(i Issue) string {
	var b strings.Builder
	b.WriteString(i.File)
	if i.Line > 0 {
		fmt.Fprintf(&b, ":%d", i.Line)
	}
	fmt.Fprintf(&b, ": [%s] ", i.Code)
	if i.Field != "" {
		b.WriteString(i.Field)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// outputValidateError prints a command-level error (bad path, no files).
func outputValidateError(f *OutputFormatter, code, message string) error {
	if err := f.Error(code, message, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, message)
}
