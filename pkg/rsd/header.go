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
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// TrialHeader holds the geometry and timing parameters extracted from one
// .rsh header file. The header belongs to a single (channel, trial) pair.
type TrialHeader struct {
	// BitmapFile is the .rsm monitor bitmap, first entry of the file list.
	// It carries no frame data.
	BitmapFile string
	// RawFiles are the .rsd raw data files in acquisition order.
	RawFiles        []string
	AcquisitionDate string
	// SampleTime is the per-frame interval in seconds, SampleRate its
	// reciprocal in Hz.
	SampleTime float64
	SampleRate float64
	// PageFrames is the frame count the header declares per page. The
	// decoder recomputes the count per raw file and treats this value as
	// advisory only.
	PageFrames int
}

// ReadTrialHeader scans a .rsh header line by line, top to bottom, with no
// backtracking. Parameter fields come before the Data-File-List sentinel,
// filenames after it.
func ReadTrialHeader(path string) (*TrialHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr := &TrialHeader{}
	var files []string
	var haveDate, haveSampleTime, havePageFrames, haveSentinel bool

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, acquisitionDateKey):
			hdr.AcquisitionDate = stripField(line, acquisitionDateKey)
			haveDate = true
		case strings.Contains(line, sampleTimeKey):
			aux := strings.ReplaceAll(stripField(line, sampleTimeKey), sampleTimeUnit, "")
			aux = strings.TrimSpace(aux)
			msec, err := strconv.ParseFloat(aux, 64)
			if err != nil {
				return nil, ErrHeaderParse{Path: path, Field: sampleTimeKey, Value: aux}
			}
			if msec <= 0 {
				return nil, ErrHeaderFormat{Path: path, What: "sample_time is not positive"}
			}
			hdr.SampleTime = msec / 1000.
			hdr.SampleRate = 1 / hdr.SampleTime
			haveSampleTime = true
		case strings.Contains(line, pageFramesKey):
			aux := stripField(line, pageFramesKey)
			n, err := strconv.Atoi(aux)
			if err != nil {
				return nil, ErrHeaderParse{Path: path, Field: pageFramesKey, Value: aux}
			}
			if n <= 0 {
				return nil, ErrHeaderFormat{Path: path, What: "page_frames is not positive"}
			}
			hdr.PageFrames = n
			havePageFrames = true
		case haveSentinel:
			if name := strings.TrimSpace(line); name != "" {
				files = append(files, name)
			}
		case strings.Contains(line, fileListSentinel):
			haveSentinel = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	switch {
	case !haveDate:
		return nil, ErrHeaderFormat{Path: path, What: "missing " + acquisitionDateKey}
	case !haveSampleTime:
		return nil, ErrHeaderFormat{Path: path, What: "missing " + sampleTimeKey}
	case !havePageFrames:
		return nil, ErrHeaderFormat{Path: path, What: "missing " + pageFramesKey}
	case !haveSentinel:
		return nil, ErrHeaderFormat{Path: path, What: "missing " + fileListSentinel}
	case len(files) == 0:
		return nil, ErrHeaderFormat{Path: path, What: "empty file list"}
	}

	hdr.BitmapFile = files[0]
	hdr.RawFiles = files[1:]
	return hdr, nil
}

// AcquisitionTime parses the header timestamp in the given fixed lab-local
// zone.
func (h *TrialHeader) AcquisitionTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(AcquisitionDateLayout, h.AcquisitionDate, loc)
}

func stripField(line, key string) string {
	line = strings.ReplaceAll(line, key, "")
	line = strings.ReplaceAll(line, "=", "")
	return strings.TrimSpace(line)
}
