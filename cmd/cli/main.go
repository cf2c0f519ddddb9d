package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dataqc/adapters/expectations"
	"dataqc/domain/expectation"
	"dataqc/domain/validation"
	"dataqc/internal/runner"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dataqc",
		Short: "dataqc validates tabular datasets against schema, statistical and freshness expectations",
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newSuiteCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var suiteDir string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "validate [check-config.yaml]",
		Short: "Run the checks described by a YAML config against a dataset",
		Long: `Run schema, statistical, freshness and suite checks over a CSV or
Excel dataset and write a JSON report.

Example: dataqc validate checks.yaml --suite-dir ./expectation_suites`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runner.LoadCheckConfig(args[0])
			if err != nil {
				return err
			}
			if reportPath != "" {
				cfg.Report = reportPath
			}

			store := expectations.NewFileSuiteStore(suiteDir)
			engine := expectations.NewEngine(store)
			suiteValidator := validation.NewSuiteValidator(engine, store, nil)

			run := runner.New(suiteValidator, nil, nil)
			report, err := run.RunFile(context.Background(), cfg)
			if err != nil {
				return err
			}

			printed, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(printed))

			if report.Failed > 0 {
				fmt.Fprintf(os.Stderr, "%d of %d validations failed\n", report.Failed, report.TotalValidations)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteDir, "suite-dir", "./expectation_suites", "directory holding expectation suite files")
	cmd.Flags().StringVar(&reportPath, "output", "", "report output path (overrides the config)")
	return cmd
}

func newSuiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Manage expectation suites",
	}
	cmd.AddCommand(newSuiteCreateCmd())
	return cmd
}

func newSuiteCreateCmd() *cobra.Command {
	var suiteDir string

	cmd := &cobra.Command{
		Use:   "create [suite-definition.yaml]",
		Short: "Create or replace an expectation suite from a YAML definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := runner.LoadSuiteDefinition(args[0])
			if err != nil {
				return err
			}

			configs := make([]expectation.Config, len(def.Expectations))
			for i, e := range def.Expectations {
				configs[i] = expectation.Config{Type: e.Type, Kwargs: e.Kwargs}
			}

			store := expectations.NewFileSuiteStore(suiteDir)
			suiteValidator := validation.NewSuiteValidator(nil, store, nil)
			if err := suiteValidator.CreateExpectationSuite(context.Background(), def.Name, configs); err != nil {
				return err
			}

			fmt.Printf("suite %s created (%d expectations)\n", def.Name, len(configs))
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteDir, "suite-dir", "./expectation_suites", "directory holding expectation suite files")
	return cmd
}
