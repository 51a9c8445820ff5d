package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/prefs"
	"github.com/teemow/calgrid/internal/theme"
)

func newThemeCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the derived color theme and toggle dark mode",
		Long: `Show the light and dark color roles derived from the source color, print
them as CSS custom properties, or toggle the persisted dark mode flag.

The source color is theme.source_color from the config unless --color is
given.`,
	}
	cmd.PersistentFlags().StringVar(&color, "color", "", "Source color as hex (e.g. #2c83bd)")

	derive := func() (theme.Theme, error) {
		if color == "" {
			return theme.Derive(cfg.Theme.SourceColor), nil
		}
		if _, err := theme.ParseHex(color); err != nil {
			return theme.Theme{}, err
		}
		return theme.Derive(color), nil
	}

	cssCmd := &cobra.Command{
		Use:   "css",
		Short: "Print the theme as CSS custom properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := derive()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), theme.Stylesheet(th))
			return err
		},
	}

	var output string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the color roles of both modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := derive()
			if err != nil {
				return err
			}
			return runThemeShow(cmd.OutOrStdout(), th, output)
		},
	}
	showCmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the persisted dark mode flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := prefsStore()
			if err != nil {
				return err
			}
			return runThemeToggle(cmd.OutOrStdout(), store)
		},
	}

	modeCmd := &cobra.Command{
		Use:   "mode",
		Short: "Print the persisted theme mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := prefsStore()
			if err != nil {
				return err
			}
			return runThemeMode(cmd.OutOrStdout(), store)
		},
	}

	cmd.AddCommand(cssCmd, showCmd, toggleCmd, modeCmd)
	return cmd
}

func runThemeShow(w io.Writer, th theme.Theme, output string) error {
	if err := validateOutput(output); err != nil {
		return err
	}
	if output != outputText {
		return writeStructured(w, output, th)
	}

	color := isTerminal(w)
	swatch := func(c theme.HSL) string {
		if !color {
			return c.Hex()
		}
		return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ") + " " + c.Hex()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("role", "light", "dark")
	for i, s := range th.Light {
		t.Row(s.Role, swatch(s.Color), swatch(th.Dark[i].Color))
	}

	_, err := fmt.Fprintf(w, "source %s  %s\n%s\n", th.Source, th.Base, t.String())
	return err
}

func runThemeToggle(w io.Writer, store prefs.Store) error {
	mode, err := theme.ToggleMode(store)
	if err != nil {
		return err
	}
	logger.Debug("theme mode toggled", logging.Mode(mode.String()))
	_, err = fmt.Fprintf(w, "%s mode\n", mode)
	return err
}

func runThemeMode(w io.Writer, store prefs.Store) error {
	mode, err := theme.LoadMode(store)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, mode)
	return err
}
