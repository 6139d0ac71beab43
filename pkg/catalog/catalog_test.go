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

package catalog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"emory.edu/jaegerlab/go-fret/pkg/catalog"
)

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "catalog.db")
	cat, err := catalog.Open(path)
	require.NoError(t, err)
	defer cat.Close()

	completed := time.Date(2020, 2, 1, 9, 30, 0, 0, time.UTC)
	run := &catalog.Run{
		ID:           catalog.RunID(completed, "/data/session.edf"),
		SourceDir:    "/data/session",
		OutPath:      "/data/session.edf",
		SessionStart: time.Date(2020, 1, 31, 12, 0, 0, 0, time.FixedZone("EST", -5*60*60)),
		CompletedAt:  completed,
		Trials: []catalog.TrialRecord{
			{Trial: "0101", StartTime: 0, StopTime: 2.56, Frames: 256, Rate: 100},
			{Trial: "0102", StartTime: 30, StopTime: 32.56, Frames: 256, Rate: 100},
		},
	}
	require.NoError(t, cat.PutRun(run))

	got, err := cat.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.SourceDir, got.SourceDir)
	require.Equal(t, run.Trials, got.Trials)
	require.True(t, run.SessionStart.Equal(got.SessionStart))

	runs, err := cat.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run.ID, runs[0].ID)
}

func TestCatalogRunNotFound(t *testing.T) {
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()

	_, err = cat.GetRun("missing")
	var nerr catalog.ErrRunNotFound
	require.ErrorAs(t, err, &nerr)
}

func TestRunID(t *testing.T) {
	completed := time.Date(2020, 2, 1, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "20200201T093000-session.edf", catalog.RunID(completed, "/data/session.edf"))
}
