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
)

// ErrNoHeaders returned when the source directory contains no session header
// files
type ErrNoHeaders struct {
	Dir string
}

func (e ErrNoHeaders) Error() string {
	return fmt.Sprintf("No .rsh header files found in directory: %s. Did you choose the correct path for source data?", e.Dir)
}

// ErrBadHeaderName returned when a header filename does not follow the
// <prefix>-<trial> naming scheme
type ErrBadHeaderName struct {
	Name string
}

func (e ErrBadHeaderName) Error() string {
	return fmt.Sprintf("Header filename does not match <prefix>-<trial>: %s", e.Name)
}

// ErrChannelMismatch returned when the donor and acceptor channels of one
// trial disagree on a parameter that must be identical
type ErrChannelMismatch struct {
	Trial string
	What  string
}

func (e ErrChannelMismatch) Error() string {
	return fmt.Sprintf("%s of channels do not match. Trial=%s", e.What, e.Trial)
}

// ErrNegativeStart returned when a trial starts before the session start
type ErrNegativeStart struct {
	Trial  string
	Offset float64
}

func (e ErrNegativeStart) Error() string {
	return fmt.Sprintf("Starting time is negative. Trial=%s (%f s)", e.Trial, e.Offset)
}

// ErrRateChange returned when a trial's sample rate differs from the rate
// the output container was opened with
type ErrRateChange struct {
	Trial string
	Want  float64
	Got   float64
}

func (e ErrRateChange) Error() string {
	return fmt.Sprintf("Sample rate changed across trials. Trial=%s: %f != %f", e.Trial, e.Got, e.Want)
}
