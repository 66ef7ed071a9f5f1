package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/session"
)

// SessionOptions holds flags shared by the session commands.
type SessionOptions struct {
	*RootOptions
	Database   string
	SurveysDir string

	// Service overrides token generation and the clock (for testing).
	Service ServiceOptions
}

// SubmitOptions holds the answer flags of `session submit`.
type SubmitOptions struct {
	Token      string
	QuestionID string
	OptionID   string
	OptionIDs  []string
	Text       string
	Skip       bool
}

// StartedSession is the output of `session start`.
type StartedSession struct {
	SessionID      string `json:"sessionId"`
	SessionToken   string `json:"sessionToken"`
	SurveyID       string `json:"surveyId"`
	NextQuestionID string `json:"nextQuestionId"`
}

// SubmitOutput is the output of `session submit`.
type SubmitOutput struct {
	NextQuestionID *string   `json:"nextQuestionId"`
	Completed      bool      `json:"completed"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	return NewSessionCommandWithOptions(&SessionOptions{RootOptions: rootOpts})
}

// NewSessionCommandWithOptions creates the session command group over opts.
func NewSessionCommandWithOptions(opts *SessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, inspect and answer respondent sessions",
		Long: `Drive respondent sessions against a SQLite database.

--db defaults to $` + EnvDatabase + ` and --surveys to $` + EnvSurveys + `.`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", envDefault(EnvDatabase, ""), "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.SurveysDir, "surveys", envDefault(EnvSurveys, ""), "directory of survey documents")

	cmd.AddCommand(&cobra.Command{
		Use:           "start <survey-id>",
		Short:         "Start a session on a survey",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionStart(opts, args[0], cmd)
		},
	})

	var showToken string
	show := &cobra.Command{
		Use:           "show",
		Short:         "Show a session and its answers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionShow(opts, showToken, cmd)
		},
	}
	show.Flags().StringVar(&showToken, "token", "", "session token (required)")
	_ = show.MarkFlagRequired("token")
	cmd.AddCommand(show)

	sub := &SubmitOptions{}
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Answer the session's current question",
		Long: `Answer the session's current question.

Give exactly one of --option, --options, --text or --skip.

Examples:
  waypoint session submit --token T --question q1 --option yes
  waypoint session submit --token T --question q2 --options dog,cat
  waypoint session submit --token T --question q3 --skip`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionSubmit(opts, sub, cmd)
		},
	}
	submit.Flags().StringVar(&sub.Token, "token", "", "session token (required)")
	submit.Flags().StringVar(&sub.QuestionID, "question", "", "question id (required)")
	submit.Flags().StringVar(&sub.OptionID, "option", "", "single choice option id")
	submit.Flags().StringSliceVar(&sub.OptionIDs, "options", nil, "multi choice option ids, comma separated")
	submit.Flags().StringVar(&sub.Text, "text", "", "text answer")
	submit.Flags().BoolVar(&sub.Skip, "skip", false, "submit a null answer")
	_ = submit.MarkFlagRequired("token")
	_ = submit.MarkFlagRequired("question")
	submit.MarkFlagsMutuallyExclusive("option", "options", "text", "skip")
	submit.MarkFlagsOneRequired("option", "options", "text", "skip")
	cmd.AddCommand(submit)

	return cmd
}

// withService loads surveys, opens the database and calls fn with a wired
// session service.
func withService(opts *SessionOptions, cmd *cobra.Command, fn func(ctx context.Context, f *OutputFormatter, svc *session.Service) error) error {
	f := newFormatter(opts.RootOptions, cmd)

	catalog, err := loadCatalogOrReport(f, opts.SurveysDir)
	if err != nil {
		return err
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, f, newService(catalog, st, logger, opts.Service))
}

func runSessionStart(opts *SessionOptions, surveyID string, cmd *cobra.Command) error {
	return withService(opts, cmd, func(ctx context.Context, f *OutputFormatter, svc *session.Service) error {
		sess, err := svc.StartSession(ctx, surveyID)
		if err != nil {
			return reportFault(f, err)
		}

		out := StartedSession{
			SessionID:      sess.UUID,
			SessionToken:   sess.Token,
			SurveyID:       sess.SurveyID,
			NextQuestionID: sess.NextQuestionID,
		}
		if f.Format == "json" {
			return f.Success(out)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Session started on %s\n", out.SurveyID)
		fmt.Fprintf(w, "  token: %s\n", out.SessionToken)
		fmt.Fprintf(w, "  next:  %s\n", out.NextQuestionID)
		return nil
	})
}

func runSessionShow(opts *SessionOptions, token string, cmd *cobra.Command) error {
	return withService(opts, cmd, func(ctx context.Context, f *OutputFormatter, svc *session.Service) error {
		detail, err := svc.GetDetailSession(ctx, token)
		if err != nil {
			return reportFault(f, err)
		}

		view := session.Describe(detail)
		if f.Format == "json" {
			return f.Success(view)
		}
		writeSessionText(cmd.OutOrStdout(), view)
		return nil
	})
}

func writeSessionText(w io.Writer, v session.SessionView) {
	status := "in progress"
	if v.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "Session %s on %s: %s\n", v.SessionID, v.SurveyID, status)
	if v.NextQuestionID != nil {
		fmt.Fprintf(w, "  next: %s\n", *v.NextQuestionID)
	}
	for _, a := range v.Answers {
		fmt.Fprintf(w, "  %s %s\n    %s\n", a.QuestionID, a.QuestionText, describeSubmitted(a.Answer))
	}
}

func describeSubmitted(a *session.SubmittedAnswer) string {
	if a == nil {
		return "(skipped)"
	}
	switch {
	case a.Choices != nil:
		labels := make([]string, 0, len(a.Choices))
		for _, c := range a.Choices {
			labels = append(labels, c.Label)
		}
		return fmt.Sprintf("%v", labels)
	case a.OptionID != "":
		return a.Label
	default:
		return fmt.Sprintf("%q", a.Text)
	}
}

func runSessionSubmit(opts *SessionOptions, sub *SubmitOptions, cmd *cobra.Command) error {
	return withService(opts, cmd, func(ctx context.Context, f *OutputFormatter, svc *session.Service) error {
		res, err := svc.SubmitAnswer(ctx, sub.Token, sub.QuestionID, sub.rawAnswer(cmd))
		if err != nil {
			return reportFault(f, err)
		}

		out := SubmitOutput{Completed: res.Completed, SubmittedAt: res.SubmittedAt}
		if res.NextQuestionID != "" {
			next := res.NextQuestionID
			out.NextQuestionID = &next
		}
		if f.Format == "json" {
			return f.Success(out)
		}

		if res.Completed {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Answer accepted. Session completed.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Answer accepted. Next question: %s\n", res.NextQuestionID)
		return nil
	})
}

// rawAnswer builds the submission from whichever answer flag was given.
func (s *SubmitOptions) rawAnswer(cmd *cobra.Command) *answer.RawAnswer {
	flags := cmd.Flags()
	switch {
	case s.Skip:
		return nil
	case flags.Changed("option"):
		id := s.OptionID
		return &answer.RawAnswer{OptionID: &id}
	case flags.Changed("options"):
		return &answer.RawAnswer{OptionIDs: append([]string{}, s.OptionIDs...)}
	default:
		text := s.Text
		return &answer.RawAnswer{Text: &text}
	}
}
