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

package metadata

import (
	"io/ioutil"

	"sigs.k8s.io/yaml"
)

// Metadata is the experimenter-provided session description loaded from a
// YAML metafile. It supplies the identification fields of the output
// container; nothing here affects frame decoding.
type Metadata struct {
	Session Session `json:"session"`
	Subject Subject `json:"subject,omitempty"`
	Ophys   Ophys   `json:"ophys"`
}

type Session struct {
	Identifier   string `json:"identifier"`
	Description  string `json:"description,omitempty"`
	Experimenter string `json:"experimenter,omitempty"`
	Institution  string `json:"institution,omitempty"`
	// StartTime, when set, declares the session start ("2006/01/02 15:04:05",
	// lab-local). The converter cross-checks it against the header-derived
	// start time and skips the optical conversion on disagreement.
	StartTime string `json:"start_time,omitempty"`
}

type Subject struct {
	ID          string `json:"id,omitempty"`
	Species     string `json:"species,omitempty"`
	Sex         string `json:"sex,omitempty"`
	Genotype    string `json:"genotype,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Description string `json:"description,omitempty"`
}

type Ophys struct {
	Device           string      `json:"device"`
	ExcitationLambda float64     `json:"excitation_lambda,omitempty"`
	Donor            FRETChannel `json:"donor"`
	Acceptor         FRETChannel `json:"acceptor"`
}

type FRETChannel struct {
	Fluorophore    string  `json:"fluorophore,omitempty"`
	EmissionLambda float64 `json:"emission_lambda,omitempty"`
	Description    string  `json:"description,omitempty"`
	Unit           string  `json:"unit,omitempty"`
}

// Load reads a metadata YAML file, filling defaults for optional fields.
func Load(path string) (*Metadata, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := NewDefaultMetadata()
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, err
	}
	if meta.Ophys.Donor.Unit == "" {
		meta.Ophys.Donor.Unit = DefaultUnit
	}
	if meta.Ophys.Acceptor.Unit == "" {
		meta.Ophys.Acceptor.Unit = DefaultUnit
	}
	return meta, nil
}

func NewDefaultMetadata() *Metadata {
	return &Metadata{
		Session: Session{
			Identifier: DefaultSessionIdentifier,
		},
		Ophys: Ophys{
			Device: DefaultDeviceName,
			Donor: FRETChannel{
				Fluorophore: DefaultDonorFluorophore,
				Unit:        DefaultUnit,
			},
			Acceptor: FRETChannel{
				Fluorophore: DefaultAcceptorFluorophore,
				Unit:        DefaultUnit,
			},
		},
	}
}
