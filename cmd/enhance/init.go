package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a new project",
		Long: `Create a new project directory with an enhance.yaml, element
definitions and pages.

Templates:
  ` + strings.Join(templates.List(), ", ") + `

Examples:
  enhance init my-site
  enhance init my-site --template=minimal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], template, description)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "full", "Project template ("+strings.Join(templates.List(), ", ")+")")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}

func runInit(cmd *cobra.Command, dir, templateName, description string) error {
	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		return errors.New("E042").
			WithDetailf("%s already exists", dir).
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	if description == "" {
		description = "Pages rendered with custom elements"
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return err
	}
	cfg := templates.Config{
		ProjectName: filepath.Base(projectDir),
		Description: description,
	}
	if err := tmpl.Create(projectDir, cfg); err != nil {
		os.RemoveAll(projectDir)
		return err
	}

	success("Created %s/ from the %q template", dir, templateName)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  To get started:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    cd %s\n", dir)
	fmt.Fprintln(out, "    enhance serve --dev")
	fmt.Fprintln(out)
	return nil
}
