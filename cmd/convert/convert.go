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

package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"emory.edu/jaegerlab/go-fret/pkg/config"
	"emory.edu/jaegerlab/go-fret/pkg/convert"
	"emory.edu/jaegerlab/go-fret/pkg/log"
	"emory.edu/jaegerlab/go-fret/pkg/metadata"
)

const (
	SourceDirOptionName   = "source-dir"
	OutOptionName         = "out"
	MetadataOptionName    = "metadata"
	WithTriggerOptionName = "with-trigger"
)

func NewCommand() *cobra.Command {
	var sourceDir, out, metafile string
	var withTrigger bool
	cfg := config.NewDefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Warning("Could not load config file, using defaults: %v", err)
	}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a session directory of .rsh/.rsd files to an EDF container",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := metadata.NewDefaultMetadata()
			if metafile != "" {
				var err error
				meta, err = metadata.Load(metafile)
				if err != nil {
					return err
				}
			}
			converter := convert.NewConverter(cfg, meta, sourceDir, out, withTrigger)
			result, err := converter.Run()
			if err != nil {
				return err
			}
			if result.Skipped {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d trials, %d frames, session start %s\n",
				result.OutPath, len(result.Trials), result.Frames, result.SessionStart)
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceDir, SourceDirOptionName, "", "Directory containing cortical imaging data")
	cmd.Flags().StringVar(&out, OutOptionName, "", "Output EDF file. E.g. session.edf")
	cmd.Flags().StringVar(&metafile, MetadataOptionName, "", "Path to the metadata YAML file")
	cmd.Flags().BoolVar(&withTrigger, WithTriggerOptionName, false, "Record the stimulus trigger channel from the excess region")
	cmd.MarkFlagRequired(SourceDirOptionName)
	cmd.MarkFlagRequired(OutOptionName)

	return cmd
}
