package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stevemurr/bookshelf/book"
	"github.com/stevemurr/bookshelf/config"
	"github.com/stevemurr/bookshelf/handler"
	"github.com/stevemurr/bookshelf/logger"
	"github.com/stevemurr/bookshelf/middleware"
	"github.com/stevemurr/bookshelf/store"
)

// options holds command-line overrides. Zero values leave the environment
// configuration untouched.
type options struct {
	host     string
	port     int
	dataPath string
	backend  string
	logLevel string
}

func (o *options) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.host != "" {
		cfg.Host = o.host
	}
	if o.port != 0 {
		cfg.Port = o.port
	}
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}
	if o.backend != "" {
		cfg.StoreBackend = o.backend
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

// openRepository opens the configured store. The returned func closes it.
func openRepository(cfg *config.Config) (*book.Repository, func(), error) {
	s, err := store.New(cfg.StoreBackend, cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create store (backend=%s): %w", cfg.StoreBackend, err)
	}
	closeStore := func() {
		if err := store.Close(s); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}
	return book.NewRepository(s), closeStore, nil
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "HTTP service for a collection of books kept in a single JSON file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.dataPath, "data", "", "collection location (overrides BOOKSHELF_DATA_PATH)")
	pf.StringVar(&opts.backend, "backend", "", "store backend: json, sqlite, bolt or memory (overrides BOOKSHELF_STORE_BACKEND)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides BOOKSHELF_LOG_LEVEL)")

	root.AddCommand(newServeCmd(&opts), newListCmd(&opts), newSeedCmd(&opts))
	return root
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the book API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ln, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
			}
			logger.Info("bookshelf starting", "addr", ln.Addr().String(), "store", cfg.StoreBackend, "data", cfg.DataPath)
			return serve(cmd.Context(), cfg, ln, newHTTPHandler(cfg, repo))
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides BOOKSHELF_HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides BOOKSHELF_PORT)")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the stored collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			books, err := repo.ReadAll()
			if errors.Is(err, book.ErrRecordNotFound) {
				return errors.New("no collection stored yet")
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(books)
		},
	}
}

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the sample books, skipping ISBNs already stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			repo, closeStore, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			added, err := book.Seed(repo, book.SeedData())
			if err != nil {
				return fmt.Errorf("seed failed after %d books: %w", added, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d books\n", added)
			return nil
		},
	}
}

func newHTTPHandler(cfg *config.Config, repo *book.Repository) http.Handler {
	return withMiddleware(cfg, handler.New(repo))
}

// withMiddleware wraps h so that the access log also records requests that
// Recovery turned into a 500.
func withMiddleware(cfg *config.Config, h http.Handler) http.Handler {
	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.AllowedOrigins),
	)(h)
}

// serve runs an HTTP server on ln until ctx is done, then shuts it down within
// cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("server exited")
		return nil
	})
	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bookshelf:", err)
		os.Exit(1)
	}
}
