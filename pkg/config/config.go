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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	LogLevel string `yaml:"log_level,omitempty"`
	// Timezone is the name of the fixed lab-local zone the acquisition
	// headers are stamped in, UTCOffsetHours its offset from UTC.
	Timezone       string `yaml:"timezone,omitempty"`
	UTCOffsetHours int    `yaml:"utc_offset_hours"`
	// ChunkFrames is the number of frame pairs buffered by the output
	// writer before they are flushed to the container.
	ChunkFrames int    `yaml:"chunk_frames,omitempty"`
	CatalogPath string `yaml:"catalog_path,omitempty"`
	filepath    string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load overlays the persisted config, if any, over the defaults. A missing
// config file is not an error.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Location returns the fixed lab-local zone used to localize header
// timestamps.
func (c *Config) Location() *time.Location {
	return time.FixedZone(c.Timezone, c.UTCOffsetHours*60*60)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, CatalogFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		Timezone:       DefaultTimezone,
		UTCOffsetHours: DefaultUTCOffsetHours,
		ChunkFrames:    DefaultChunkFrames,
		CatalogPath:    DefaultCatalogPath(),
		filepath:       DefaultConfigPath(),
	}
}
