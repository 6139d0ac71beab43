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

const (
	// SamplesPerFrame is the number of 16-bit words one frame occupies in a
	// raw data file: a 128x100 block, column-major.
	SamplesPerFrame = BlockRows * FrameCols
	BlockRows       = 128
	FrameRows       = 100
	FrameCols       = 100
	// ExcessRows is the number of leading block rows that carry analog and
	// trigger samples instead of image data. The 8 block rows past the frame
	// region are unused padding.
	ExcessRows     = 20
	BytesPerSample = 2

	// MaxRawFileBytes bounds the single bulk read of a raw data file. The
	// MiCAM acquisition software never produces files anywhere near this
	// large.
	MaxRawFileBytes = 1000000000

	HeaderExt = ".rsh"
	RawExt    = ".rsd"
	BitmapExt = ".rsm"
)

// Excess-region rows holding the analog inputs and the stimulus trigger.
// Within each row, every fourth column of the first 80 holds one sample.
const (
	TriggerExcessRow = 8
	Analog1ExcessRow = 12
	Analog2ExcessRow = 14

	ExcessSampleCols = 80
	ExcessSampleStep = 4
)

const (
	acquisitionDateKey = "acquisition_date"
	sampleTimeKey      = "sample_time"
	sampleTimeUnit     = "msec"
	pageFramesKey      = "page_frames"
	fileListSentinel   = "Data-File-List"
)

// AcquisitionDateLayout is the timestamp format the MiCAM software writes
// into headers. No zone marker; localization is up to the caller.
const AcquisitionDateLayout = "2006/01/02 15:04:05"
