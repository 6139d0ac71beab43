/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"emory.edu/jaegerlab/go-fret/pkg/catalog"
	"emory.edu/jaegerlab/go-fret/pkg/config"
	"emory.edu/jaegerlab/go-fret/pkg/log"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the conversion catalog",
	}
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewTrialsCommand())
	return cmd
}

func NewListCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Warning("Could not load config file, using defaults: %v", err)
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Open(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			runs, err := cat.ListRuns()
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprint(cmd.OutOrStdout(), run.String())
			}
			return nil
		},
	}
	return cmd
}

func NewTrialsCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Warning("Could not load config file, using defaults: %v", err)
	}
	cmd := &cobra.Command{
		Use:   "trials <run-id>",
		Short: "Print the trial intervals of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Open(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			run, err := cat.GetRun(args[0])
			if err != nil {
				return err
			}
			for _, trial := range run.Trials {
				fmt.Fprintf(cmd.OutOrStdout(), "trial %s: start %.3f s, stop %.3f s, %d frames at %g Hz\n",
					trial.Trial, trial.StartTime, trial.StopTime, trial.Frames, trial.Rate)
			}
			return nil
		},
	}
	return cmd
}
