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

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"emory.edu/jaegerlab/go-fret/pkg/log"
)

const (
	RunsBucketName = "runs"
)

// TrialRecord is the per-trial interval the output container itself cannot
// carry: start/stop offsets relative to the session start.
type TrialRecord struct {
	Trial     string  `json:"trial"`
	StartTime float64 `json:"start_time"`
	StopTime  float64 `json:"stop_time"`
	Frames    int     `json:"frames"`
	Rate      float64 `json:"rate"`
}

// Run is one completed conversion.
type Run struct {
	ID           string        `json:"id"`
	SourceDir    string        `json:"source_dir"`
	OutPath      string        `json:"out_path"`
	SessionStart time.Time     `json:"session_start"`
	CompletedAt  time.Time     `json:"completed_at"`
	Trials       []TrialRecord `json:"trials"`
}

func (r *Run) String() string {
	return fmt.Sprintf("%s  %s -> %s  trials: %d\n", r.ID, r.SourceDir, r.OutPath, len(r.Trials))
}

// Catalog is a persistent record of completed conversions.
type Catalog struct {
	DB *bbolt.DB
}

func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(RunsBucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

// Close ...
func (c *Catalog) Close() {
	c.DB.Close()
}

// PutRun ...
func (c *Catalog) PutRun(run *Run) error {
	log.Debug("Recording conversion run: %s", run.ID)
	value, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RunsBucketName))
		if b == nil {
			return ErrBucketNotFound{Name: RunsBucketName}
		}
		return b.Put([]byte(run.ID), value)
	})
}

// GetRun ...
func (c *Catalog) GetRun(id string) (*Run, error) {
	var run Run
	if err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RunsBucketName))
		if b == nil {
			return ErrBucketNotFound{Name: RunsBucketName}
		}
		value := b.Get([]byte(id))
		if value == nil {
			return ErrRunNotFound{ID: id}
		}
		return json.Unmarshal(value, &run)
	}); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all recorded runs in key order.
func (c *Catalog) ListRuns() ([]*Run, error) {
	var runs []*Run
	if err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(RunsBucketName))
		if b == nil {
			return ErrBucketNotFound{Name: RunsBucketName}
		}
		return b.ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, &run)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return runs, nil
}

// RunID derives the catalog key for a conversion completed at the given
// time.
func RunID(completedAt time.Time, outPath string) string {
	return fmt.Sprintf("%s-%s", completedAt.UTC().Format("20060102T150405"), filepath.Base(outPath))
}
