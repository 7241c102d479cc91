package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios in a YAML file",
		Long: `Run loads a scenario file and executes each scenario against a
fresh in-memory host. Example file:

  scenarios:
    - name: shuffle-100
      iterations: 500
      list_size: 100
      shuffle: true
    - name: churn
      iterations: 500
      list_size: 200
      rotate: 5
      replace: 10
      render: true`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := loadScenarios(scenarioPath)
			if err != nil {
				return err
			}

			for _, s := range scenarios {
				result, err := runScenario(s)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", s.Name, err)
				}
				printResult(result)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "path to the scenario YAML file")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func printResult(r Result) {
	s := r.Scenario
	fmt.Printf("%s: %d iterations over %d items in %s\n",
		s.Name, s.Iterations, s.ListSize, r.Elapsed.Round(time.Microsecond))
	perIter := r.Elapsed / time.Duration(s.Iterations)
	fmt.Printf("  %s/iteration\n", perIter.Round(time.Nanosecond))
	fmt.Printf("  host ops: %d creates, %d removes, %d moves, %d inserts, %d text updates\n",
		r.Creates, r.Removes, r.Moves, r.Inserts, r.Texts)
	if s.Render {
		fmt.Printf("  rendered %d bytes of markup\n", r.RenderedBytes)
	}
}
