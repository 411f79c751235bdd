package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/config"
	"github.com/vango-dev/enhance/internal/dev"
	"github.com/vango-dev/enhance/pkg/middleware"
	"github.com/vango-dev/enhance/pkg/server"
)

type serveOptions struct {
	project projectFlags
	host    string
	port    int
	dev     bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Long: `Serve the pages directory, rendering every page on request.

A request for /about renders pages/about.html or pages/about/index.html.
With --dev, element templates, pages and the state file are watched and
connected browsers reload on change.

Examples:
  enhance serve
  enhance serve --dev --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	opts.project.register(cmd)
	cmd.Flags().StringVar(&opts.host, "host", "", "Host to bind to")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Watch files and reload browsers on change")

	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	cfg, err := opts.project.load()
	if err != nil {
		return err
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Server.Dev = true
	}
	if cfg.Output.BodyContent || cfg.Output.SeparateContent {
		warn("serve renders whole documents; output.bodyContent and output.separateContent are ignored")
		cfg.Output.BodyContent = false
		cfg.Output.SeparateContent = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mw []enhance.Middleware
	if cfg.Server.Metrics {
		mw = append(mw, middleware.Prometheus())
	}
	mw = append(mw, middleware.OpenTelemetry())
	build := func(ctx context.Context) (*enhance.Enhancer, error) {
		reg, err := loadElements(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return newEnhancer(cfg, reg, enhance.WithMiddleware(mw...))
	}

	e, err := build(ctx)
	if err != nil {
		return err
	}

	srvCfg := &server.Config{
		Address: cfg.Address(),
		Pages:   os.DirFS(cfg.PagesPath()),
		Metrics: cfg.Server.Metrics,
		Compression: server.CompressionConfig{
			Enabled: cfg.Server.Compression.Enabled,
			Level:   cfg.Server.Compression.Level,
			MinSize: cfg.Server.Compression.MinSize,
		},
	}

	var srv *server.Server
	if cfg.Server.Dev {
		srvCfg.Live, err = dev.NewLive(dev.LiveOptions{
			Paths: dev.CollectWatchPaths(cfg),
			Reload: func(changes []dev.Change) error {
				return reloadProject(ctx, cfg, srv, build, changes)
			},
		})
		if err != nil {
			return err
		}
	}

	srv, err = server.New(e, srvCfg)
	if err != nil {
		return err
	}
	if live := srvCfg.Live; live != nil {
		go func() {
			if err := live.Start(ctx); err != nil && ctx.Err() == nil {
				warn("file watcher stopped: %v", err)
			}
		}()
	}

	success("Serving %s on %s", cfg.PagesPath(), cfg.URL())
	if cfg.Server.Dev {
		success("Watching for changes (live reload on)")
	}
	if cfg.Server.Metrics {
		success("Metrics on %s/metrics", cfg.URL())
	}
	return srv.Run(ctx)
}

// reloadProject applies a batch of file changes to the running server.
// Template changes swap the registry of the current enhancer. A changed
// state file needs a fresh store, so the enhancer is rebuilt. Pages are
// read per request and need nothing.
func reloadProject(ctx context.Context, cfg *config.Config, srv *server.Server,
	build func(context.Context) (*enhance.Enhancer, error), changes []dev.Change) error {
	var templates, data bool
	for _, c := range changes {
		switch c.Type {
		case dev.ChangeTemplate:
			templates = templates || isUnder(c.Path, cfg.ElementsPath())
		case dev.ChangeData:
			data = true
		}
	}

	switch {
	case data:
		e, err := build(ctx)
		if err != nil {
			return err
		}
		srv.SetEnhancer(e)
	case templates:
		reg, err := loadElements(ctx, cfg)
		if err != nil {
			return err
		}
		srv.Enhancer().SetElements(reg)
	}
	return nil
}

func isUnder(path, dir string) bool {
	return len(path) > len(dir) && path[:len(dir)] == dir && os.IsPathSeparator(path[len(dir)])
}
