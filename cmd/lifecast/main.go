package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifecast/retirement-engine/internal/config"
	"github.com/lifecast/retirement-engine/internal/output"
	"github.com/lifecast/retirement-engine/internal/simulation"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lifecast",
		Short: "Monte Carlo retirement outcome simulator",
		Long: `lifecast simulates retirement outcomes with correlated stochastic
returns, survival and long-term-care risk, a federal and state tax
engine, and guardrails-based spending adjustment.`,
		SilenceUsage: true,
	}
	root.AddCommand(newSimulateCmd(), newExampleCmd(), newVersionCmd())
	return root
}

func newSimulateCmd() *cobra.Command {
	var (
		format     string
		outFile    string
		iterations int
		seed       int64
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "simulate <plan.yaml>",
		Short: "Run the simulation for a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("iterations") {
				params.Iterations = iterations
			}
			if cmd.Flags().Changed("seed") {
				params.Seed = seed
			}

			var logger simulation.Logger = simulation.NopLogger{}
			if verbose {
				logger = stdLogger{}
			}
			engine := simulation.NewEngine(logger)
			result, err := engine.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %v)", format, output.FormatterNames())
			}
			if outFile != "" {
				name, err := output.WriteFormatted(formatter, result, outFile, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
				return nil
			}
			data, err := formatter.Format(result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json, csv)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "override scenario count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override random seed")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine progress")
	return cmd
}

func newExampleCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFile != "" {
				return os.WriteFile(outFile, []byte(config.ExampleYAML), 0644)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.ExampleYAML)
			return err
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the example to a file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lifecast %s\n", version)
		},
	}
}

// stdLogger adapts the standard library logger to the engine's interface.
type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...any) { log.Printf("DEBUG "+format, args...) }
func (stdLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (stdLogger) Warnf(format string, args ...any)  { log.Printf("WARN "+format, args...) }
func (stdLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }
