/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/quickfire/internal/history"
	"github.com/cristianoliveira/quickfire/internal/logging"
	"github.com/cristianoliveira/quickfire/internal/shell"
	"github.com/cristianoliveira/quickfire/internal/tui/render"
	"github.com/cristianoliveira/quickfire/internal/tui/state"
	"github.com/cristianoliveira/quickfire/internal/version"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quickfire",
	Short: "Fuzzy-search and run your project commands without leaving the terminal.",
	Long: `quickfire is an interactive launcher for the commands you run all day.

It collects runnable commands from your config file and from project
providers (artisan, composer, justfile), lets you fuzzy-search them, and
runs the selection either streamed inside the session pane or directly in
your shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	defer logging.ShutdownGlobal()
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a config file (overrides the default lookup)")
}

func runLauncher() error {
	if err := logging.InitGlobal(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("quickfire needs an interactive terminal")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}

	runtime := state.Runtime{Cwd: cwd, ExplicitConfigPath: configPath}
	payload, err := state.LoadCatalog(runtime)
	if err != nil {
		return err
	}

	usage := history.Load()
	model := state.New(payload, runtime, usage)

	program := tea.NewProgram(render.App{Model: model}, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	app, ok := final.(render.App)
	if !ok || app.Model.PendingExec == nil {
		return nil
	}
	return runInherited(*app.Model.PendingExec, app.Model.Usage)
}

// runInherited executes the command the UI handed off, with the terminal
// restored and stdio inherited from the launcher.
func runInherited(request state.ExecRequest, usage *history.Tracker) error {
	fmt.Printf("\nquickfire: %s\n", request.DisplayName)
	if request.WorkingDir != "" {
		fmt.Println("working directory: " + request.WorkingDir)
	}
	fmt.Println("$ " + request.CommandLine)
	fmt.Println()

	code, err := shell.RunInherited(request.CommandLine, request.WorkingDir)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	usage.Record(request.UsageKey)
	fmt.Printf("exit code: %d\n", code)
	return nil
}
