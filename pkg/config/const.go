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

const (
	ConfigDir   = ".go-fret"
	ConfigFile  = "config"
	CatalogFile = "catalog.db"

	DefaultLogLevel = "info"
	// The acquisition rigs stamp headers in lab-local time with no zone
	// marker. EST here is the fixed UTC-5 zone, not US Eastern with DST.
	DefaultTimezone       = "EST"
	DefaultUTCOffsetHours = -5
	DefaultChunkFrames    = 16
)
