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
	"io/ioutil"
	"os"
)

// Frame is one decoded 100x100 image, Pix[row][col], sign-inverted relative
// to the raw samples.
type Frame struct {
	Pix [][]int16
}

// FrameSeq is a single-pass iterator over the frames of one raw data file.
// The whole file is read up front in one bulk operation; frames are
// materialized lazily, one per Next call, in strict file order. A FrameSeq
// cannot be rewound, only reopened.
type FrameSeq struct {
	path   string
	words  []int16
	frames int
	next   int
}

// OpenFrameSeq bulk-reads a raw data file and prepares frame iteration.
// The frame count is recomputed from the file's own length; the header's
// declared count is not consulted.
func OpenFrameSeq(path string) (*FrameSeq, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxRawFileBytes {
		return nil, ErrCapacity{Path: path, Size: info.Size()}
	}

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf)%BytesPerSample != 0 {
		return nil, ErrGeometry{Path: path, Samples: len(buf) / BytesPerSample}
	}

	words := make([]int16, len(buf)/BytesPerSample)
	for i := range words {
		words[i] = int16(binary.LittleEndian.Uint16(buf[i*BytesPerSample:]))
	}

	frames := len(words) / SamplesPerFrame
	if frames == 0 || len(words)%SamplesPerFrame != 0 {
		return nil, ErrGeometry{Path: path, Samples: len(words)}
	}

	return &FrameSeq{
		path:   path,
		words:  words,
		frames: frames,
	}, nil
}

// Path returns the raw data file this sequence was opened from.
func (s *FrameSeq) Path() string {
	return s.path
}

// Len returns the total number of frames in the file.
func (s *FrameSeq) Len() int {
	return s.frames
}

// Next decodes and returns the next frame. It returns io.EOF after the last
// frame.
func (s *FrameSeq) Next() (*Frame, error) {
	if s.next >= s.frames {
		return nil, io.EOF
	}
	block := s.decodeBlock(s.next)
	_, frame := splitBlock(block)
	s.next++
	return &Frame{Pix: frame}, nil
}

// decodeBlock unpacks frame i into a sign-inverted 128x100 block. The raw
// stream is column-major: sample k of the frame lands at row k%128,
// column k/128.
func (s *FrameSeq) decodeBlock(i int) [][]int16 {
	base := i * SamplesPerFrame
	block := make([][]int16, BlockRows)
	for r := range block {
		block[r] = make([]int16, FrameCols)
	}
	for c := 0; c < FrameCols; c++ {
		col := s.words[base+c*BlockRows : base+(c+1)*BlockRows]
		for r := 0; r < BlockRows; r++ {
			block[r][c] = -col[r]
		}
	}
	return block
}

// splitBlock separates the analog excess region (rows 0..19) from the image
// region (rows 20..119). Both share the block's backing rows, so the split
// is lossless.
func splitBlock(block [][]int16) (excess, frame [][]int16) {
	return block[:ExcessRows], block[ExcessRows : ExcessRows+FrameRows]
}

// ExcessSamples returns the analog samples embedded in the excess region of
// frame i for the given excess row: every ExcessSampleStep-th column of the
// first ExcessSampleCols. Row should be one of TriggerExcessRow,
// Analog1ExcessRow, Analog2ExcessRow.
func (s *FrameSeq) ExcessSamples(i, row int) []int16 {
	base := i * SamplesPerFrame
	out := make([]int16, 0, ExcessSampleCols/ExcessSampleStep)
	for c := 0; c < ExcessSampleCols; c += ExcessSampleStep {
		out = append(out, -s.words[base+c*BlockRows+row])
	}
	return out
}

// ExcessTrace concatenates ExcessSamples across all frames of the file,
// reconstructing one continuous analog channel for the trial segment.
func (s *FrameSeq) ExcessTrace(row int) []int16 {
	out := make([]int16, 0, s.frames*ExcessSampleCols/ExcessSampleStep)
	for i := 0; i < s.frames; i++ {
		out = append(out, s.ExcessSamples(i, row)...)
	}
	return out
}
