package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funkyheatmap/internal/server"
	"github.com/matzehuels/funkyheatmap/pkg/cache"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/pipeline"
	"github.com/matzehuels/funkyheatmap/pkg/session"
)

const (
	cleanupInterval = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	spec       string
	addr       string
	measurer   string
	cache      cacheOpts
	mongo      string // MongoDB URI for sessions
	sessionDir string // directory for file-backed sessions
	ttl        time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     defaultAddr,
		measurer: pipeline.MeasurerFont,
		ttl:      session.DefaultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve [data]",
		Short: "Serve an interactive heatmap over HTTP",
		Long: `Serve an interactive heatmap. Every viewer opens a session and gets
its own sort state.

Sessions live in memory unless --session-dir or --mongo is given. Rendered
artifacts are cached in the file cache, or in redis with --redis.`,
		Example: `  funkyheatmap serve scores.csv --spec scores.toml
  funkyheatmap serve scores.csv --addr :9000 --redis localhost:6379 --mongo mongodb://localhost:27017`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.spec, "spec", "s", "", "heatmap spec file")
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.StringVar(&opts.measurer, "measurer", opts.measurer, "text measurer: font (default), fixed")
	f.BoolVar(&opts.cache.noCache, "no-cache", false, "disable the artifact cache")
	f.StringVar(&opts.cache.redis, "redis", "", "use a redis artifact cache (host:port or redis:// URL)")
	f.StringVar(&opts.mongo, "mongo", "", "store sessions in MongoDB (URI)")
	f.StringVar(&opts.sessionDir, "session-dir", "", "store sessions as files in this directory")
	f.DurationVar(&opts.ttl, "session-ttl", opts.ttl, "session lifetime")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts *serveOpts) error {
	popts := pipeline.Options{DataPath: input, SpecPath: opts.spec, Measurer: opts.measurer, Logger: c.Logger}
	in, err := pipeline.Load(ctx, popts)
	if err != nil {
		return err
	}
	// Fail on configuration errors before listening. Per-session builds
	// repeat the same warnings, so only this one logs.
	h, err := pipeline.Build(in, popts)
	if err != nil {
		return err
	}
	quiet := popts
	quiet.Logger = nil
	build := func() (*heatmap.Heatmap, error) { return pipeline.Build(in, quiet) }

	measurer, err := pipeline.NewMeasurer(opts.measurer)
	if err != nil {
		return err
	}
	artifacts, err := c.newCache(opts.cache)
	if err != nil {
		return err
	}
	defer artifacts.Close()
	store, err := c.newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Config{
		Build:     build,
		InputHash: cache.HashJSON([]string{in.Hash, opts.measurer}),
		Measurer:  measurer,
		Store:     store,
		Cache:     artifacts,
		TTL:       opts.ttl,
		Logger:    c.Logger,
	})
	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go c.cleanupLoop(ctx, srv)

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printSuccess("Serving %s", input)
	printKeyValue("Address", opts.addr)
	printKeyValue("Rows", StyleNumber.Render(strconv.Itoa(in.Table.Len())))
	printKeyValue("Columns", StyleNumber.Render(strconv.Itoa(len(h.Columns))))
	printNextStep("Open a session", "curl -X POST http://localhost"+opts.addr+"/sessions")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// newStore picks the session backend: MongoDB, a directory, or memory.
func (c *CLI) newStore(ctx context.Context, opts *serveOpts) (session.Store, error) {
	switch {
	case opts.mongo != "":
		c.Logger.Debug("using mongo session store")
		return session.NewMongoStore(ctx, session.MongoConfig{URI: opts.mongo})
	case opts.sessionDir != "":
		c.Logger.Debug("using file session store", "dir", opts.sessionDir)
		return session.NewFileStore(opts.sessionDir)
	default:
		return session.NewMemoryStore(), nil
	}
}

func (c *CLI) cleanupLoop(ctx context.Context, srv *server.Server) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := srv.Cleanup(ctx); err != nil {
				c.Logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
