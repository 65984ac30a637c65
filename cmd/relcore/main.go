// relcore is a demo CLI over the query-execution core: it lists and
// runs a handful of canned scenarios (internal/demo) through the
// binder/logical/physical pipeline, since SQL parsing is outside this
// core's scope.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"relcore/internal/config"
	"relcore/internal/demo"
	"relcore/internal/tui"
)

var cfgSearchPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "relcore",
		Short: "relcore - a teaching SQL query-execution core",
		Long: `relcore runs a handful of canned query scenarios through a
binder, logical planner, physical planner and Volcano-style execution
engine. There is no SQL parser: scenarios are named Go-built statement
trees, selected by name.`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgSearchPath, "config-dir", ".", "directory to search for relcore.yaml")

	rootCmd.AddCommand(listCmd(), runCmd(), explainCmd(), shellCmd(), uiCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list every runnable scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range demo.Scenarios() {
				fmt.Printf("%-12s %s\n", s.Name, s.Description)
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario>",
		Short: "run a scenario and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(args[0])
		},
	}
}

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <scenario>",
		Short: "print a scenario's plan without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainScenario(args[0])
		},
	}
}

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "launch the interactive scenario viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := demo.Catalog()
			p := tea.NewProgram(tui.New(cat), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "readline-driven scenario shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgSearchPath)
			if err != nil {
				return err
			}
			return runShell(cfg)
		},
	}
}

func runShell(cfg config.Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "relcore> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("relcore shell. Commands: list, run <name>, explain <name>, quit")
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		switch {
		case line == "" :
			continue
		case line == "quit" || line == "exit":
			return nil
		case line == "list":
			for _, s := range demo.Scenarios() {
				fmt.Printf("%-12s %s\n", s.Name, s.Description)
			}
		case len(line) > 4 && line[:4] == "run ":
			if err := runScenario(line[4:]); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case len(line) > 8 && line[:8] == "explain ":
			if err := explainScenario(line[8:]); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		default:
			fmt.Printf("unknown command %q (date format: %s)\n", line, cfg.DateFormat)
		}
	}
}

func runScenario(name string) error {
	cat := demo.Catalog()
	result, err := demo.Run(cat, name)
	if err != nil {
		return err
	}
	printTable(result)
	return nil
}

func explainScenario(name string) error {
	cat := demo.Catalog()
	text, err := demo.Explain(cat, name)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func printTable(result *demo.Result) {
	for i, col := range result.Columns {
		if i > 0 {
			fmt.Print("\t")
		}
		fmt.Print(col)
	}
	fmt.Println()
	for _, row := range result.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Print("\t")
			}
			fmt.Print(v.String())
		}
		fmt.Println()
	}
}
