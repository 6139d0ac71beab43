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

package rsd

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRawFile(t *testing.T, path string, words []int16) {
	t.Helper()
	buf := make([]byte, len(words)*BytesPerSample)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*BytesPerSample:], uint16(w))
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
}

// incrementingWords returns n frames worth of samples 0, 1, 2, ...
func incrementingWords(n int) []int16 {
	words := make([]int16, n*SamplesPerFrame)
	for i := range words {
		words[i] = int16(i)
	}
	return words
}

func TestFrameSeqSingleBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial_A.rsd")
	writeRawFile(t, path, incrementingWords(1))

	seq, err := OpenFrameSeq(path)
	require.NoError(t, err)
	require.Equal(t, 1, seq.Len())

	frame, err := seq.Next()
	require.NoError(t, err)
	require.Len(t, frame.Pix, FrameRows)
	for _, row := range frame.Pix {
		require.Len(t, row, FrameCols)
	}

	// The raw stream is column-major: pixel (r,c) of the image region maps
	// to sample c*128 + (r+20), negated.
	require.Equal(t, int16(-20), frame.Pix[0][0])
	require.Equal(t, int16(-148), frame.Pix[0][1])
	require.Equal(t, int16(-119), frame.Pix[99][0])
	require.Equal(t, int16(-12791), frame.Pix[99][99])

	_, err = seq.Next()
	require.Equal(t, io.EOF, err)
}

func TestFrameSeqOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial_A.rsd")
	writeRawFile(t, path, incrementingWords(2))

	seq, err := OpenFrameSeq(path)
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())

	first, err := seq.Next()
	require.NoError(t, err)
	second, err := seq.Next()
	require.NoError(t, err)

	require.Equal(t, int16(-20), first.Pix[0][0])
	require.Equal(t, int16(-(SamplesPerFrame + 20)), second.Pix[0][0])

	_, err = seq.Next()
	require.Equal(t, io.EOF, err)
}

func TestSplitBlockLossless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial_A.rsd")
	writeRawFile(t, path, incrementingWords(1))

	seq, err := OpenFrameSeq(path)
	require.NoError(t, err)

	block := seq.decodeBlock(0)
	excess, frame := splitBlock(block)
	require.Len(t, excess, ExcessRows)
	require.Len(t, frame, FrameRows)

	// Concatenating the two regions reconstructs the block rows they were
	// split from.
	for r := 0; r < ExcessRows+FrameRows; r++ {
		if r < ExcessRows {
			require.Equal(t, block[r], excess[r])
		} else {
			require.Equal(t, block[r], frame[r-ExcessRows])
		}
	}
	require.Equal(t, int16(0), excess[0][0])
}

func TestFrameSeqGeometryError(t *testing.T) {
	dir := t.TempDir()

	// Not a whole number of frames.
	ragged := filepath.Join(dir, "ragged.rsd")
	writeRawFile(t, ragged, make([]int16, SamplesPerFrame+100))
	_, err := OpenFrameSeq(ragged)
	var gerr ErrGeometry
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, SamplesPerFrame+100, gerr.Samples)

	// Odd byte count.
	odd := filepath.Join(dir, "odd.rsd")
	require.NoError(t, os.WriteFile(odd, make([]byte, 2*SamplesPerFrame+1), 0644))
	_, err = OpenFrameSeq(odd)
	require.ErrorAs(t, err, &gerr)

	// Empty file.
	empty := filepath.Join(dir, "empty.rsd")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = OpenFrameSeq(empty)
	require.ErrorAs(t, err, &gerr)
}

func TestFrameSeqCapacityError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.rsd")
	f, err := os.Create(path)
	require.NoError(t, err)
	// Sparse file, only the size matters: the bound is checked before any
	// read happens.
	require.NoError(t, f.Truncate(MaxRawFileBytes+2))
	require.NoError(t, f.Close())

	_, err = OpenFrameSeq(path)
	var cerr ErrCapacity
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, int64(MaxRawFileBytes+2), cerr.Size)
}

func TestExcessTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial_A.rsd")
	writeRawFile(t, path, incrementingWords(2))

	seq, err := OpenFrameSeq(path)
	require.NoError(t, err)

	samples := seq.ExcessSamples(0, TriggerExcessRow)
	require.Len(t, samples, ExcessSampleCols/ExcessSampleStep)
	require.Equal(t, int16(-TriggerExcessRow), samples[0])
	require.Equal(t, int16(-(ExcessSampleStep*BlockRows + TriggerExcessRow)), samples[1])

	trace := seq.ExcessTrace(TriggerExcessRow)
	require.Len(t, trace, 2*ExcessSampleCols/ExcessSampleStep)
	require.Equal(t, int16(-(SamplesPerFrame + TriggerExcessRow)), trace[ExcessSampleCols/ExcessSampleStep])
}
