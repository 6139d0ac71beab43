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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/OpenPSG/edf"
	"github.com/stretchr/testify/require"

	"emory.edu/jaegerlab/go-fret/pkg/metadata"
	"emory.edu/jaegerlab/go-fret/pkg/rsd"
)

func testFrame(fill int16) *rsd.Frame {
	pix := make([][]int16, rsd.FrameRows)
	for r := range pix {
		pix[r] = make([]int16, rsd.FrameCols)
		for c := range pix[r] {
			pix[r][c] = fill
		}
	}
	return &rsd.Frame{Pix: pix}
}

func TestEDFSinkWindowing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edf")
	start := time.Date(2020, 1, 31, 12, 0, 0, 0, time.UTC)
	sink, err := NewEDFSink(path, metadata.NewDefaultMetadata(), start, 100, 3, false)
	require.NoError(t, err)

	// Records accumulate in the window until it fills.
	for i := 0; i < 2; i++ {
		require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))
	}
	require.Equal(t, 0, sink.Records())

	require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))
	require.Equal(t, 3, sink.Records())

	require.NoError(t, sink.WriteFrames(testFrame(3), testFrame(4), nil))
	require.NoError(t, sink.Close())
	require.Equal(t, 4, sink.Records())
}

// readHeader slurps the fixed-width container header so tests can check the
// raw ascii fields the library does not expose.
func readHeader(t *testing.T, path string, n int) string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	buf := make([]byte, n)
	_, err = io.ReadFull(file, buf)
	require.NoError(t, err)
	return string(buf)
}

func TestEDFSinkRecordDurationHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edf")
	start := time.Date(2020, 1, 31, 12, 0, 0, 0, time.UTC)
	sink, err := NewEDFSink(path, metadata.NewDefaultMetadata(), start, 100, 3, false)
	require.NoError(t, err)
	require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))
	require.NoError(t, sink.Close())

	// One record per frame at 100 Hz: the duration field must carry the
	// fractional record length, not a whole second.
	hdr := readHeader(t, path, 256)
	field := strings.TrimSpace(hdr[244:252])
	dur, err := strconv.ParseFloat(field, 64)
	require.NoError(t, err)
	require.Equal(t, 0.01, dur)
	require.Equal(t, 100.0, 1/dur)

	// The container stays readable after the rewrite.
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	reader, err := edf.Open(file)
	require.NoError(t, err)
	sr, err := reader.Signal(0)
	require.NoError(t, err)
	values := make([]float64, FrameSamples)
	n, err := sr.Read(values)
	require.NoError(t, err)
	require.Equal(t, FrameSamples, n)
	require.Equal(t, 1.0, values[0])
}

func TestEDFSinkIdentification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edf")
	start := time.Date(2020, 1, 31, 12, 0, 0, 0, time.UTC)
	meta := metadata.NewDefaultMetadata()
	meta.Session.Identifier = "fret-20200131"
	meta.Subject = metadata.Subject{
		ID:      "mouse-42",
		Sex:     "F",
		Species: "Mus musculus",
	}
	meta.Ophys.Device = "MiCAM02"
	meta.Ophys.ExcitationLambda = 440
	meta.Ophys.Donor.EmissionLambda = 492
	meta.Ophys.Acceptor.EmissionLambda = 528

	sink, err := NewEDFSink(path, meta, start, 100, 3, false)
	require.NoError(t, err)
	require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))
	require.NoError(t, sink.Close())

	hdr := readHeader(t, path, 768)
	patient := strings.TrimSpace(hdr[8:88])
	require.Contains(t, patient, "mouse-42")
	require.Contains(t, patient, "F")
	require.Contains(t, patient, "Mus musculus")
	recording := strings.TrimSpace(hdr[88:168])
	require.Contains(t, recording, "fret-20200131")
	require.Contains(t, recording, "MiCAM02")
	// Per-signal prefiltering fields sit after the other signal fields:
	// 256 + 2*(16+80+8+8+8+8+8) = 528.
	require.Contains(t, hdr[528:608], "EX 440nm EM 492nm")
	require.Contains(t, hdr[608:688], "EM 528nm")
}

func TestEDFSinkCloseFailureThenAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edf")
	start := time.Date(2020, 1, 31, 12, 0, 0, 0, time.UTC)
	sink, err := NewEDFSink(path, metadata.NewDefaultMetadata(), start, 100, 3, false)
	require.NoError(t, err)
	require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))

	// Force finalization to fail with records still buffered.
	require.NoError(t, sink.file.Close())
	require.Error(t, sink.Close())

	sink.Abort()
	require.NoFileExists(t, path)
}

func TestEDFSinkAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.edf")
	start := time.Date(2020, 1, 31, 12, 0, 0, 0, time.UTC)
	sink, err := NewEDFSink(path, metadata.NewDefaultMetadata(), start, 100, 3, false)
	require.NoError(t, err)
	require.NoError(t, sink.WriteFrames(testFrame(1), testFrame(2), nil))

	sink.Abort()
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
