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
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	"emory.edu/jaegerlab/go-fret/pkg/log"
	"emory.edu/jaegerlab/go-fret/pkg/metadata"
	"emory.edu/jaegerlab/go-fret/pkg/rsd"
)

const (
	DonorLabel    = "donor"
	AcceptorLabel = "acceptor"
	TriggerLabel  = "stim trigger"

	FrameSamples   = rsd.FrameRows * rsd.FrameCols
	TriggerSamples = rsd.ExcessSampleCols / rsd.ExcessSampleStep

	// recordDurationOffset is the byte position of the 8-char record
	// duration field in the EDF header.
	recordDurationOffset = 244
	recordDurationLen    = 8
	// idFieldLen is the width of the patient/recording identification and
	// prefiltering header fields.
	idFieldLen = 80
)

// EDFSink streams decoded frame pairs into an EDF container. One data record
// holds one flattened donor frame and one acceptor frame (plus the trigger
// samples of that frame when enabled). Records are buffered up to a fixed
// window and flushed in chunks, so at no point does a whole trial sit in
// memory.
type EDFSink struct {
	file     *os.File
	path     string
	writer   *edf.Writer
	window   int
	pending  [][][]float64
	records  int
	trigger  bool
	duration time.Duration
}

// NewEDFSink creates the output file and writes the container header. The
// identity physical/digital range keeps the stored samples bit-equal to the
// decoded int16 values.
func NewEDFSink(path string, meta *metadata.Metadata, start time.Time, rate float64, window int, withTrigger bool) (*EDFSink, error) {
	signals := []edf.SignalHeader{
		{
			Label:             DonorLabel,
			TransducerType:    meta.Ophys.Donor.Fluorophore,
			PhysicalDimension: meta.Ophys.Donor.Unit,
			PhysicalMin:       -32768,
			PhysicalMax:       32767,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			Prefiltering:      opticalFilter(meta.Ophys.Donor, meta.Ophys.ExcitationLambda),
			SamplesPerRecord:  FrameSamples,
		},
		{
			Label:             AcceptorLabel,
			TransducerType:    meta.Ophys.Acceptor.Fluorophore,
			PhysicalDimension: meta.Ophys.Acceptor.Unit,
			PhysicalMin:       -32768,
			PhysicalMax:       32767,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			Prefiltering:      opticalFilter(meta.Ophys.Acceptor, meta.Ophys.ExcitationLambda),
			SamplesPerRecord:  FrameSamples,
		},
	}
	if withTrigger {
		signals = append(signals, edf.SignalHeader{
			Label:             TriggerLabel,
			TransducerType:    meta.Ophys.Device,
			PhysicalDimension: metadata.DefaultUnit,
			PhysicalMin:       -32768,
			PhysicalMax:       32767,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			SamplesPerRecord:  TriggerSamples,
		})
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Error("Error while creating file: %s", path)
		return nil, err
	}

	duration := time.Duration(float64(time.Second) / rate)
	writer, err := edf.Create(file, edf.Header{
		Version:            edf.Version0,
		PatientID:          patientID(meta.Subject),
		RecordingID:        recordingID(meta),
		StartTime:          start,
		DataRecordDuration: duration,
		SignalCount:        len(signals),
		Signals:            signals,
	})
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}

	return &EDFSink{
		file:     file,
		path:     path,
		writer:   writer,
		window:   window,
		trigger:  withTrigger,
		duration: duration,
	}, nil
}

// WriteFrames appends one frame pair (and its trigger samples, if enabled)
// as a single data record, flushing the buffered window when it fills.
func (s *EDFSink) WriteFrames(donor, acceptor *rsd.Frame, trigger []int16) error {
	record := [][]float64{flattenFrame(donor), flattenFrame(acceptor)}
	if s.trigger {
		trig := make([]float64, len(trigger))
		for i, v := range trigger {
			trig[i] = float64(v)
		}
		record = append(record, trig)
	}
	s.pending = append(s.pending, record)
	if len(s.pending) >= s.window {
		return s.Flush()
	}
	return nil
}

// Flush writes out all buffered records.
func (s *EDFSink) Flush() error {
	for _, record := range s.pending {
		if err := s.writer.WriteRecord(record); err != nil {
			return err
		}
		s.records++
	}
	s.pending = s.pending[:0]
	return nil
}

// Records returns the number of records written so far, not counting the
// buffered window.
func (s *EDFSink) Records() int {
	return s.records
}

// Close flushes the window and finalizes the container header.
func (s *EDFSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.writer.Close(); err != nil {
		return err
	}
	// The upstream writer rounds the duration field up to whole seconds,
	// which would stretch all timing by 1/duration for sub-second records.
	// The field is an ascii float and readers parse fractions, so rewrite
	// it once the header is final.
	if _, err := s.file.Seek(recordDurationOffset, io.SeekStart); err != nil {
		return err
	}
	if _, err := s.file.WriteString(formatRecordDuration(s.duration.Seconds())); err != nil {
		return err
	}
	return s.file.Close()
}

// Abort discards the output file. Used when the conversion fails mid-run so
// no partially written container is left behind.
func (s *EDFSink) Abort() {
	s.file.Close()
	os.Remove(s.path)
}

func flattenFrame(frame *rsd.Frame) []float64 {
	out := make([]float64, 0, FrameSamples)
	for _, row := range frame.Pix {
		for _, v := range row {
			out = append(out, float64(v))
		}
	}
	return out
}

func formatRecordDuration(seconds float64) string {
	s := strconv.FormatFloat(seconds, 'g', -1, 64)
	if len(s) > recordDurationLen {
		s = strconv.FormatFloat(seconds, 'f', recordDurationLen-2, 64)[:recordDurationLen]
	}
	return fmt.Sprintf("%-*s", recordDurationLen, s)
}

// patientID folds the subject description into the container's patient
// identification field.
func patientID(s metadata.Subject) string {
	var fields []string
	for _, f := range []string{s.ID, s.Sex, s.Species, s.Genotype, s.Weight, s.Description} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return clampField(strings.Join(fields, " "))
}

func recordingID(m *metadata.Metadata) string {
	fields := []string{m.Session.Identifier}
	for _, f := range []string{m.Ophys.Device, m.Session.Experimenter, m.Session.Description} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return clampField(strings.Join(fields, " "))
}

// opticalFilter describes a channel's optical path in the prefiltering
// field: excitation and emission wavelengths in nm.
func opticalFilter(ch metadata.FRETChannel, excitation float64) string {
	var parts []string
	if excitation > 0 {
		parts = append(parts, fmt.Sprintf("EX %gnm", excitation))
	}
	if ch.EmissionLambda > 0 {
		parts = append(parts, fmt.Sprintf("EM %gnm", ch.EmissionLambda))
	}
	return strings.Join(parts, " ")
}

// clampField keeps free text within the fixed-width header fields so the
// header layout stays intact.
func clampField(s string) string {
	if len(s) > idFieldLen {
		return s[:idFieldLen]
	}
	return s
}
