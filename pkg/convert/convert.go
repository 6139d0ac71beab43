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
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"emory.edu/jaegerlab/go-fret/pkg/catalog"
	"emory.edu/jaegerlab/go-fret/pkg/config"
	"emory.edu/jaegerlab/go-fret/pkg/log"
	"emory.edu/jaegerlab/go-fret/pkg/metadata"
	"emory.edu/jaegerlab/go-fret/pkg/rsd"
)

// Converter copies one session of dual-channel optical imaging data into a
// single EDF container. Trials are appended sequentially; there is exactly
// one writer for the whole run.
type Converter struct {
	Config      *config.Config
	Meta        *metadata.Metadata
	SourceDir   string
	OutPath     string
	WithTrigger bool
}

// Result summarizes a finished run.
type Result struct {
	OutPath      string
	SessionStart time.Time
	Trials       []catalog.TrialRecord
	Frames       int
	// Skipped is set when the optical conversion was abandoned because the
	// metadata-declared session start time disagrees with the headers.
	Skipped bool
}

func NewConverter(cfg *config.Config, meta *metadata.Metadata, sourceDir, outPath string, withTrigger bool) *Converter {
	return &Converter{
		Config:      cfg,
		Meta:        meta,
		SourceDir:   sourceDir,
		OutPath:     outPath,
		WithTrigger: withTrigger,
	}
}

// Run converts every trial of the session. Any error aborts the whole run
// and removes the partially written output; the one exception is a session
// start time mismatch against the metadata, which skips the optical
// conversion with a warning and leaves everything else untouched.
func (c *Converter) Run() (*Result, error) {
	loc := c.Config.Location()

	headers, prefix, trials, err := scanSession(c.SourceDir)
	if err != nil {
		return nil, err
	}

	firstHdr, err := rsd.ReadTrialHeader(filepath.Join(c.SourceDir, headers[0]))
	if err != nil {
		return nil, err
	}
	sessionStart, err := firstHdr.AcquisitionTime(loc)
	if err != nil {
		return nil, err
	}

	if c.Meta.Session.StartTime != "" {
		declared, err := time.ParseInLocation(rsd.AcquisitionDateLayout, c.Meta.Session.StartTime, loc)
		if err != nil {
			return nil, err
		}
		if !declared.Equal(sessionStart) {
			log.Warning("Session start time in metadata does not match the start time from the header files: %s != %s",
				declared.Format(rsd.AcquisitionDateLayout), sessionStart.Format(rsd.AcquisitionDateLayout))
			log.Warning("Optical data conversion aborted for: %s", c.SourceDir)
			return &Result{Skipped: true}, nil
		}
	}

	result := &Result{
		OutPath:      c.OutPath,
		SessionStart: sessionStart,
	}

	var sink *EDFSink
	var rate float64
	for _, trial := range trials {
		record, err := c.convertTrial(trial, prefix, sessionStart, loc, &sink, &rate)
		if err != nil {
			if sink != nil {
				sink.Abort()
			}
			return nil, err
		}
		result.Trials = append(result.Trials, *record)
		result.Frames += record.Frames
	}

	if sink != nil {
		if err := sink.Close(); err != nil {
			// A half-finalized container is as bad as a half-written one.
			sink.Abort()
			return nil, err
		}
	}

	c.recordRun(result)
	return result, nil
}

// convertTrial validates the donor/acceptor pair of one trial and streams
// its frames. The sink is opened lazily on the first trial, once the sample
// rate is known.
func (c *Converter) convertTrial(trial, prefix string, sessionStart time.Time, loc *time.Location, sink **EDFSink, rate *float64) (*catalog.TrialRecord, error) {
	hdrA, err := rsd.ReadTrialHeader(c.headerPath(prefix, trial, "A"))
	if err != nil {
		return nil, err
	}
	hdrB, err := rsd.ReadTrialHeader(c.headerPath(prefix, trial, "B"))
	if err != nil {
		return nil, err
	}

	if hdrA.AcquisitionDate != hdrB.AcquisitionDate {
		return nil, ErrChannelMismatch{Trial: trial, What: "Acquisition date"}
	}
	if hdrA.SampleRate != hdrB.SampleRate {
		return nil, ErrChannelMismatch{Trial: trial, What: "Sample rate"}
	}
	if hdrA.PageFrames != hdrB.PageFrames {
		return nil, ErrChannelMismatch{Trial: trial, What: "Number of frames"}
	}
	if len(hdrA.RawFiles) != len(hdrB.RawFiles) {
		return nil, ErrChannelMismatch{Trial: trial, What: "Number of raw data files"}
	}

	trialStart, err := hdrA.AcquisitionTime(loc)
	if err != nil {
		return nil, err
	}
	relStart := trialStart.Sub(sessionStart).Seconds()
	if relStart < 0 {
		return nil, ErrNegativeStart{Trial: trial, Offset: relStart}
	}

	if *sink == nil {
		s, err := NewEDFSink(c.OutPath, c.Meta, sessionStart, hdrA.SampleRate, c.Config.ChunkFrames, c.WithTrigger)
		if err != nil {
			return nil, err
		}
		*sink = s
		*rate = hdrA.SampleRate
	} else if hdrA.SampleRate != *rate {
		return nil, ErrRateChange{Trial: trial, Want: *rate, Got: hdrA.SampleRate}
	}

	frames := 0
	for i := range hdrA.RawFiles {
		log.Progress("Adding trial %s: file %d of %d (%d%%)", trial, i+1, len(hdrA.RawFiles), 100*i/len(hdrA.RawFiles))
		n, err := c.streamFilePair(trial, filepath.Join(c.SourceDir, hdrA.RawFiles[i]), filepath.Join(c.SourceDir, hdrB.RawFiles[i]), *sink)
		if err != nil {
			return nil, err
		}
		frames += n
	}

	return &catalog.TrialRecord{
		Trial:     trial,
		StartTime: relStart,
		StopTime:  relStart + float64(frames)/hdrA.SampleRate,
		Frames:    frames,
		Rate:      hdrA.SampleRate,
	}, nil
}

// streamFilePair walks the donor and acceptor frame sequences of one raw
// file pair in lockstep, one frame at a time.
func (c *Converter) streamFilePair(trial, pathA, pathB string, sink *EDFSink) (int, error) {
	seqA, err := rsd.OpenFrameSeq(pathA)
	if err != nil {
		return 0, err
	}
	seqB, err := rsd.OpenFrameSeq(pathB)
	if err != nil {
		return 0, err
	}
	if seqA.Len() != seqB.Len() {
		return 0, ErrChannelMismatch{Trial: trial, What: "Number of frames"}
	}

	for i := 0; ; i++ {
		frameA, err := seqA.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		frameB, err := seqB.Next()
		if err != nil {
			return 0, err
		}
		var trigger []int16
		if c.WithTrigger {
			trigger = seqA.ExcessSamples(i, rsd.TriggerExcessRow)
		}
		if err := sink.WriteFrames(frameA, frameB, trigger); err != nil {
			return 0, err
		}
	}
	return seqA.Len(), nil
}

func (c *Converter) headerPath(prefix, trial, channel string) string {
	return filepath.Join(c.SourceDir, fmt.Sprintf("%s-%s_%s%s", prefix, trial, channel, rsd.HeaderExt))
}

// recordRun appends the finished run to the conversion catalog. A catalog
// failure does not invalidate the written container.
func (c *Converter) recordRun(result *Result) {
	if c.Config.CatalogPath == "" {
		return
	}
	cat, err := catalog.Open(c.Config.CatalogPath)
	if err != nil {
		log.Warning("Could not open conversion catalog %s: %v", c.Config.CatalogPath, err)
		return
	}
	defer cat.Close()

	completed := time.Now()
	run := &catalog.Run{
		ID:           catalog.RunID(completed, result.OutPath),
		SourceDir:    c.SourceDir,
		OutPath:      result.OutPath,
		SessionStart: result.SessionStart,
		CompletedAt:  completed,
		Trials:       result.Trials,
	}
	if err := cat.PutRun(run); err != nil {
		log.Warning("Could not record conversion run: %v", err)
	}
}

// scanSession lists the session headers (the .rsh files with no channel
// suffix), sorted, and derives the filename prefix and trial numbers.
func scanSession(dir string) (headers []string, prefix string, trials []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, rsd.HeaderExt) && !strings.Contains(name, "_A") && !strings.Contains(name, "_B") {
			headers = append(headers, name)
		}
	}
	if len(headers) == 0 {
		return nil, "", nil, ErrNoHeaders{Dir: dir}
	}
	sort.Strings(headers)

	for _, name := range headers {
		parts := strings.SplitN(strings.TrimSuffix(name, rsd.HeaderExt), "-", 2)
		if len(parts) != 2 {
			return nil, "", nil, ErrBadHeaderName{Name: name}
		}
		trials = append(trials, parts[1])
	}
	prefix = strings.SplitN(headers[0], "-", 2)[0]
	return headers, prefix, trials, nil
}
