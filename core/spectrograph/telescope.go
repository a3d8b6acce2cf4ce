// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package spectrograph

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TelescopePar - the observatory a spectrograph is mounted on
type TelescopePar struct {
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"` // degrees, east positive
	Latitude  float64 `json:"latitude" yaml:"latitude"`   // degrees
	Elevation float64 `json:"elevation" yaml:"elevation"` // metres
	Diameter  float64 `json:"diameter" yaml:"diameter"`   // primary mirror, metres
}

func readTelescopes() (map[string]TelescopePar, error) {
	data, err := assetFS.ReadFile(assetDir + "/telescopes.yaml")
	if err != nil {
		return nil, err
	}

	result := map[string]TelescopePar{}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to read telescopes: %v", err)
	}
	return result, nil
}
