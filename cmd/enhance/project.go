package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/config"
	"github.com/vango-dev/enhance/pkg/elements"
	"github.com/vango-dev/enhance/pkg/expand"
)

// projectFlags are shared by render and serve.
type projectFlags struct {
	config   string
	elements string
	state    string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Path to "+config.ConfigFileName+" (default: nearest in working directory)")
	cmd.Flags().StringVarP(&f.elements, "elements", "e", "", "Element template directory")
	cmd.Flags().StringVar(&f.state, "state", "", "YAML or JSON file with the initial store")
}

// load reads the project configuration and applies flag overrides. Without
// a config file the defaults apply, relative to the working directory.
func (f *projectFlags) load() (*config.Config, error) {
	var cfg *config.Config
	var err error

	switch {
	case f.config != "":
		cfg, err = config.LoadFile(f.config)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if f.elements != "" {
		cfg.Elements = f.elements
		cfg.ElementsS3 = nil
	}
	if f.state != "" {
		cfg.State = f.state
	}
	return cfg, nil
}

// loadElements builds the registry from the elements directory or bucket.
// A missing elements directory yields an empty registry.
func loadElements(ctx context.Context, cfg *config.Config) (expand.Registry, error) {
	if s3cfg := cfg.ElementsS3; s3cfg != nil {
		return elements.LoadS3(ctx, elements.NewS3Client(s3cfg.Region), s3cfg.Bucket, s3cfg.Prefix)
	}

	dir := cfg.ElementsPath()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		slog.Debug("no elements directory", "path", dir)
		return expand.Registry{}, nil
	}
	return elements.Load(os.DirFS(dir))
}

// newEnhancer builds an Enhancer from cfg with the given registry.
func newEnhancer(cfg *config.Config, reg expand.Registry, opts ...enhance.Option) (*enhance.Enhancer, error) {
	state, err := config.LoadState(cfg.StatePath())
	if err != nil {
		return nil, err
	}

	base := []enhance.Option{
		enhance.WithElements(reg),
		enhance.WithInitialState(state),
		enhance.WithBodyContent(cfg.Output.BodyContent),
		enhance.WithSeparateContent(cfg.Output.SeparateContent),
		enhance.WithEnhancedAttr(cfg.Output.EnhancedAttr),
		enhance.WithLogger(slog.Default()),
	}
	return enhance.New(append(base, opts...)...)
}
