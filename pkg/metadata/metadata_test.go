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

package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"emory.edu/jaegerlab/go-fret/pkg/metadata"
)

const metafile = `session:
  identifier: fret-20200131
  description: cortical FRET imaging
  start_time: "2020/01/31 12:00:00"
subject:
  id: mouse-42
  species: Mus musculus
ophys:
  device: MiCAM02
  excitation_lambda: 440
  donor:
    fluorophore: mTFP1
    emission_lambda: 492
  acceptor:
    fluorophore: Venus
    emission_lambda: 528
    unit: mV
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metafile.yml")
	require.NoError(t, os.WriteFile(path, []byte(metafile), 0644))

	meta, err := metadata.Load(path)
	require.NoError(t, err)
	require.Equal(t, "fret-20200131", meta.Session.Identifier)
	require.Equal(t, "2020/01/31 12:00:00", meta.Session.StartTime)
	require.Equal(t, "mouse-42", meta.Subject.ID)
	require.Equal(t, "MiCAM02", meta.Ophys.Device)
	require.Equal(t, 440.0, meta.Ophys.ExcitationLambda)
	require.Equal(t, "mTFP1", meta.Ophys.Donor.Fluorophore)
	require.Equal(t, 528.0, meta.Ophys.Acceptor.EmissionLambda)
	// Units default when the metafile leaves them out.
	require.Equal(t, metadata.DefaultUnit, meta.Ophys.Donor.Unit)
	require.Equal(t, "mV", meta.Ophys.Acceptor.Unit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := metadata.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
