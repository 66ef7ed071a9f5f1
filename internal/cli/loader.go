package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/waypoint/internal/session"
	"github.com/roach88/waypoint/internal/store"
	"github.com/roach88/waypoint/internal/survey"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvDatabase = "WAYPOINT_DB"
	EnvSurveys  = "WAYPOINT_SURVEYS"
	EnvAddr     = "WAYPOINT_ADDR"
)

// envDefault returns the value of key, or fallback when it is unset or empty.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadError represents an error that occurred while loading surveys.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadCatalog compiles every survey document under dir.
func LoadCatalog(dir string) (*survey.Catalog, error) {
	if dir == "" {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "surveys directory is required (--surveys or " + EnvSurveys + ")"}
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("surveys directory not found: %s", dir), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing surveys directory: %v", err), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := survey.FindSurveyFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no survey files found in %s", dir)}
	}

	catalog, err := survey.LoadFiles(files...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error(), Err: err}
	}
	return catalog, nil
}

// openStore opens the SQLite database at path, creating it if needed.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, NewExitError(ExitCommandError, "database path is required (--db or "+EnvDatabase+")")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// newLogger builds the CLI logger: text on w, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ServiceOptions lets tests pin the token generator and clock.
type ServiceOptions struct {
	Tokens session.TokenGenerator
	Clock  session.Clock
}

// newService wires a session service over catalog and st.
func newService(catalog *survey.Catalog, st *store.Store, logger *slog.Logger, so ServiceOptions) *session.Service {
	opts := []session.Option{session.WithLogger(logger)}
	if so.Tokens != nil {
		opts = append(opts, session.WithTokenGenerator(so.Tokens))
	}
	if so.Clock != nil {
		opts = append(opts, session.WithClock(so.Clock))
	}
	return session.NewService(catalog, st, st, st, opts...)
}
