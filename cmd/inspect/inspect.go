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

package inspect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"emory.edu/jaegerlab/go-fret/pkg/rsd"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <header.rsh>",
		Short: "Print the parsed contents of a trial header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hdr, err := rsd.ReadTrialHeader(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "acquisition date: %s\n", hdr.AcquisitionDate)
			fmt.Fprintf(out, "sample rate:      %g Hz\n", hdr.SampleRate)
			fmt.Fprintf(out, "page frames:      %d\n", hdr.PageFrames)
			fmt.Fprintf(out, "bitmap file:      %s\n", hdr.BitmapFile)
			dir := filepath.Dir(args[0])
			for _, name := range hdr.RawFiles {
				// Frame counts come from the file sizes, not the header.
				info, err := os.Stat(filepath.Join(dir, name))
				if err != nil {
					fmt.Fprintf(out, "raw file:         %s (missing)\n", name)
					continue
				}
				frames := info.Size() / rsd.BytesPerSample / rsd.SamplesPerFrame
				fmt.Fprintf(out, "raw file:         %s (%d frames)\n", name, frames)
			}
			return nil
		},
	}
	return cmd
}
