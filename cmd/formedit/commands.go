package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/renderers/tui"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formedit",
		Short: "Inspect and edit schema-driven forms with persisted edit state",
		Long: `formedit loads a raw form document (JSON or YAML), normalizes it into
sections of typed fields and applies edits stored per form id in a SQLite
database. Stored values that no longer match the declared field type are
shown as drifted text and can be reset.

Environment:
  FORMEDIT_DB             database path (default formedit.db)
  FORMEDIT_KEY_PREFIX     storage key prefix (default dntel-form-)
  FORMEDIT_LEGACY_PREFIX  legacy read prefix, empty disables (default form-)
  FORMEDIT_LOG_LEVEL      debug, info, warn, error (default warn)
  FORMEDIT_STRICT_IDS     fail on duplicate field ids
  FORMEDIT_HTTP_TIMEOUT   timeout for URL sources (default 10s)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.source, "source", "s", "", "form document path or URL")
	flags.StringVarP(&a.formID, "form", "f", "", "form instance id")
	flags.String("db", "formedit.db", "SQLite database path")
	flags.String("key-prefix", "dntel-form-", "storage key prefix")
	flags.String("log-level", "warn", "log level")
	flags.Bool("strict-ids", false, "fail on duplicate field ids")

	root.AddCommand(
		newViewCmd(a),
		newSetCmd(a),
		newUnsetCmd(a),
		newResetCmd(a),
		newClearCmd(a),
		newSectionCmd(a, "expand", "Expand a section"),
		newSectionCmd(a, "collapse", "Collapse a section"),
		newSectionCmd(a, "toggle", "Toggle a section"),
		newSectionCmd(a, "scroll", "Make a section the active one"),
		newAllSectionsCmd(a, "expand-all", "Expand every section"),
		newAllSectionsCmd(a, "collapse-all", "Collapse every section"),
		newEditModeCmd(a),
		newRenderCmd(a),
		newEditCmd(a),
		newFormsCmd(a),
	)
	return root
}

func newViewCmd(a *app) *cobra.Command {
	var asJSON, all bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the resolved form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			format := tui.OutputFormatPrettyText
			if asJSON {
				format = tui.OutputFormatJSON
			}
			out, err := tui.New(tui.WithOutputFormat(format)).Render(cmd.Context(), s.View(), render.RenderOptions{
				ExpandAll:   all,
				Diagnostics: s.Form().Diagnostics,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "include collapsed sections")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set <field-id> <value>",
		Short: "Record an edit for a field",
		Long: `Records a value in the edit overlay. The value is decoded as JSON when
it parses (true, 42, ["a"]) and stored as a string otherwise. Edit mode must be
on unless --force is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			value := parseValue(args[1])
			if force {
				err = s.SetValue(cmd.Context(), args[0], value)
			} else {
				err = s.OnChangeValue(cmd.Context(), args[0], value)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeSession(s))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "write even when edit mode is off")
	return cmd
}

func newUnsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <field-id>",
		Short: "Remove a field's edit so it falls back to its original value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Unset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeSession(s))
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [field-id]",
		Short: "Reset a drifted field to its declared type, or drop every edit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				err = s.OnResetType(cmd.Context(), args[0])
			} else {
				err = s.Reset(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeSession(s))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored state of the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.formID == "" {
				return errNoFormID
			}
			if err := a.openStore(); err != nil {
				return err
			}
			if err := a.bridge.Clear(cmd.Context(), a.formID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", a.formID)
			return nil
		},
	}
}

func newSectionCmd(a *app, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <section-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx, id := cmd.Context(), args[0]
			if _, ok := s.Form().Section(id); !ok {
				return fmt.Errorf("formedit: unknown section %q", id)
			}
			switch use {
			case "expand":
				err = s.OnExpandSection(ctx, id)
			case "collapse":
				err = s.Collapse(ctx, id)
			case "toggle":
				_, err = s.Toggle(ctx, id)
			case "scroll":
				err = s.ScrollTo(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expanded: %s\n", strings.Join(s.Expanded(), ", "))
			return nil
		},
	}
}

func newAllSectionsCmd(a *app, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if use == "expand-all" {
				err = s.ExpandAll(cmd.Context())
			} else {
				err = s.CollapseAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expanded: %s\n", strings.Join(s.Expanded(), ", "))
			return nil
		},
	}
}

func newEditModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "edit-mode [on|off]",
		Short:     "Switch edit mode; without an argument it toggles",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = s.ToggleEditMode(cmd.Context())
			} else {
				err = s.SetEditMode(cmd.Context(), args[0] == "on")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeSession(s))
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		rendererName string
		output       string
		all          bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form with a registered renderer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.orch.Render(cmd.Context(), s, rendererName, render.RenderOptions{ExpandAll: all})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("formedit: write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "html", "renderer to use (html, tui)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&all, "all", false, "render collapsed sections too")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the form interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			opts := []tui.Option{tui.WithOutput(cmd.OutOrStdout())}
			if all {
				opts = append(opts, tui.WithAllSections())
			}
			if err := tui.NewEditor(opts...).Edit(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeSession(s))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "prompt collapsed sections too")
	return cmd
}

func newFormsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List form ids with stored state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openStore(); err != nil {
				return err
			}
			entries, err := a.store.List(cmd.Context(), a.cfg.KeyPrefix)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					strings.TrimPrefix(entry.Key, a.cfg.KeyPrefix),
					entry.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
				)
			}
			return nil
		},
	}
}

// parseValue decodes raw as JSON and falls back to the literal string.
func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
