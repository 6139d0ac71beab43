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
	"fmt"
)

// ErrHeaderFormat returned when a trial header is missing a required field,
// the file-list sentinel, or any raw data filenames
type ErrHeaderFormat struct {
	Path string
	What string
}

func (e ErrHeaderFormat) Error() string {
	return fmt.Sprintf("Malformed trial header %s: %s", e.Path, e.What)
}

// ErrHeaderParse returned when a numeric header field does not parse
type ErrHeaderParse struct {
	Path  string
	Field string
	Value string
}

func (e ErrHeaderParse) Error() string {
	return fmt.Sprintf("Error while parsing trial header %s: field %s has non-numeric value %q", e.Path, e.Field, e.Value)
}

// ErrCapacity returned when a raw data file exceeds the single-read bound
type ErrCapacity struct {
	Path string
	Size int64
}

func (e ErrCapacity) Error() string {
	return fmt.Sprintf("Raw data file too large for a single read: %s (%d bytes, max %d)", e.Path, e.Size, MaxRawFileBytes)
}

// ErrGeometry returned when the sample count of a raw data file does not
// split into whole 128x100 frame blocks
type ErrGeometry struct {
	Path    string
	Samples int
}

func (e ErrGeometry) Error() string {
	return fmt.Sprintf("Raw data file %s does not divide into %d-sample frames: %d samples", e.Path, SamplesPerFrame, e.Samples)
}
