package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/waypoint/internal/api"
)

// DefaultAddr is the listen address when neither --addr nor WAYPOINT_ADDR is set.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database   string
	SurveysDir string
	Addr       string

	// Service overrides token generation and the clock (for testing).
	Service ServiceOptions

	// Ready, if set, receives the bound address once the listener is open.
	Ready chan<- string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return NewServeCommandWithOptions(&ServeOptions{RootOptions: rootOpts})
}

// NewServeCommandWithOptions creates the serve command over opts.
func NewServeCommandWithOptions(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey HTTP API",
		Long: `Serve surveys and respondent sessions over HTTP.

Surveys are loaded once at startup. Sessions are stored in the SQLite
database, which is created if it doesn't exist.

Flags fall back to $` + EnvDatabase + `, $` + EnvSurveys + ` and $` + EnvAddr + `.

Example:
  waypoint serve --db ./waypoint.db --surveys ./surveys --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", envDefault(EnvDatabase, ""), "path to SQLite database")
	cmd.Flags().StringVar(&opts.SurveysDir, "surveys", envDefault(EnvSurveys, ""), "directory of survey documents")
	cmd.Flags().StringVar(&opts.Addr, "addr", envDefault(EnvAddr, DefaultAddr), "listen address")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	f := newFormatter(opts.RootOptions, cmd)

	logger.Info("loading surveys", "dir", opts.SurveysDir)
	catalog, err := loadCatalogOrReport(f, opts.SurveysDir)
	if err != nil {
		return err
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	svc := newService(catalog, st, logger, opts.Service)
	srv := &http.Server{
		Handler:           api.NewRouter(api.NewHandler(catalog, svc, logger), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	logger.Info("server listening", "addr", addr)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
	if opts.Ready != nil {
		opts.Ready <- addr
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown failed", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
