package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/weekly-todo/internal/config"
	"github.com/amirbrooks/weekly-todo/internal/weekly"
)

func (a *app) rollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll",
		Short: "Update the file for today without opening an editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, f, err := a.roll(cmd.Context())
			if err != nil {
				return err
			}
			if a.gf.DryRun {
				fmt.Fprint(a.stdout, res.Content)
				return nil
			}
			fmt.Fprintf(a.stdout, "%s:%d\n", f.Path, res.OpeningLine)
			return nil
		},
	}
}

func (a *app) whereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print file:line of today's entry without changing the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.openStore()
			if err != nil {
				return err
			}
			doc, err := f.Load()
			if err != nil {
				return internalErr(err)
			}
			fmt.Fprintf(a.stdout, "%s:%d\n", f.Path, weekly.OpeningLine(doc, a.now))
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize the current week without changing the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.openStore()
			if err != nil {
				return err
			}
			doc, err := f.Load()
			if err != nil {
				return internalErr(err)
			}
			s := weekly.Summarize(doc, a.now)
			if asYAML {
				b, err := yaml.Marshal(s)
				if err != nil {
					return internalErr(err)
				}
				if _, err := a.stdout.Write(b); err != nil {
					return internalErr(err)
				}
				return nil
			}
			renderSummary(a.stdout, f.Path, s, a.isTerminal())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the summary as YAML")
	return cmd
}

// itemStates is the display order of item counts.
var itemStates = []weekly.ItemState{
	weekly.StateOpen,
	weekly.StateEmpty,
	weekly.StateMovedToday,
	weekly.StateMovedUnresolved,
	weekly.StateResolved,
}

func renderSummary(w io.Writer, path string, s weekly.Summary, styled bool) {
	title := lipgloss.NewStyle()
	label := lipgloss.NewStyle()
	warn := lipgloss.NewStyle()
	if styled {
		title = title.Bold(true)
		label = label.Foreground(lipgloss.Color("8"))
		warn = warn.Foreground(lipgloss.Color("3"))
	}

	header := s.Header
	if header == "" {
		header = "(no week yet)"
	}
	fmt.Fprintln(w, title.Render(header))
	fmt.Fprintf(w, "%s %s\n", label.Render("File:"), path)
	fmt.Fprintf(w, "%s %s\n", label.Render("Today:"), s.Today)
	if !s.UpToDate {
		fmt.Fprintln(w, warn.Render("Needs a new week (run weekly roll)"))
	}
	fmt.Fprintf(w, "%s %d\n", label.Render("Weeks:"), s.Weeks)
	fmt.Fprintf(w, "%s %d\n", label.Render("Unresolved:"), s.Unresolved)
	if s.OpeningLine > 0 {
		fmt.Fprintf(w, "%s %d\n", label.Render("Opens at line:"), s.OpeningLine)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("This week"))
	for _, st := range itemStates {
		fmt.Fprintf(w, "  %-18s %d\n", st.String(), s.Items[st.String()])
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := config.Marshal(a.cfg)
			if err != nil {
				return internalErr(err)
			}
			fmt.Fprintf(a.stdout, "# %s\n", a.configPath)
			if _, err := a.stdout.Write(b); err != nil {
				return internalErr(err)
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the default settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRewritesConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return usageErr(fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return internalErr(err)
			}
			if err := config.Save(a.configPath, config.DefaultConfig()); err != nil {
				return internalErr(err)
			}
			fmt.Fprintln(a.stdout, "Wrote", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "weekly %s\n", Version)
			fmt.Fprintf(a.stdout, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
