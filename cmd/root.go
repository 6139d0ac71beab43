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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"emory.edu/jaegerlab/go-fret/cmd/catalog"
	"emory.edu/jaegerlab/go-fret/cmd/completion"
	"emory.edu/jaegerlab/go-fret/cmd/config"
	"emory.edu/jaegerlab/go-fret/cmd/convert"
	"emory.edu/jaegerlab/go-fret/cmd/inspect"
	pkgconfig "emory.edu/jaegerlab/go-fret/pkg/config"
	"emory.edu/jaegerlab/go-fret/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Warning("Could not load config file, using defaults: %v", err)
	}
	cmd := &cobra.Command{
		Use:   "go-fret",
		Short: "Tool to convert MiCAM FRET optical imaging data to EDF",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(convert.NewCommand())
	cmd.AddCommand(inspect.NewCommand())
	cmd.AddCommand(catalog.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
