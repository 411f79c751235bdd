package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/errors"
)

type renderOptions struct {
	project        projectFlags
	body           bool
	separate       bool
	noEnhancedAttr bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a document to stdout",
		Long: `Render an HTML document with its custom elements expanded.

The document is read from the file argument, or from stdin when the
argument is "-" or absent.

Examples:
  enhance render index.html
  cat page.html | enhance render --body
  enhance render page.html --separate --state state.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runRender(cmd, input, opts)
		},
	}

	opts.project.register(cmd)
	cmd.Flags().BoolVar(&opts.body, "body", false, "Print only the body content")
	cmd.Flags().BoolVar(&opts.separate, "separate", false, "Print head and body separately as JSON")
	cmd.Flags().BoolVar(&opts.noEnhancedAttr, "no-enhanced-attr", false, "Do not mark expanded elements")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts renderOptions) error {
	doc, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	cfg, err := opts.project.load()
	if err != nil {
		return err
	}
	if opts.body {
		cfg.Output.BodyContent = true
	}
	if opts.separate {
		cfg.Output.SeparateContent = true
	}
	if opts.noEnhancedAttr {
		cfg.Output.EnhancedAttr = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := enhance.WithName(cmd.Context(), input)
	reg, err := loadElements(ctx, cfg)
	if err != nil {
		return err
	}
	e, err := newEnhancer(cfg, reg)
	if err != nil {
		return err
	}

	out, err := e.HTML(ctx, doc)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out.Separated {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Head string `json:"head"`
			Body string `json:"body"`
		}{out.Head, out.Body})
	}
	_, err = fmt.Fprintln(w, out.HTML)
	return err
}

func readInput(stdin io.Reader, input string) (string, error) {
	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", errors.New("E040").WithDetailf("reading %s", input).Wrap(err)
	}
	return string(data), nil
}
