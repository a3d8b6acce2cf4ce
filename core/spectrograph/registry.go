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
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/semanticversion"
	"github.com/specrdx/core/core/slitmask"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownSpectrograph - no asset exists for the requested instrument
	ErrUnknownSpectrograph = errors.New("unknown spectrograph")
	// ErrInvalidAsset - an instrument asset failed validation
	ErrInvalidAsset = errors.New("invalid spectrograph asset")
)

const assetDir = "assets"
const assetExt = ".yaml"
const telescopesAsset = "telescopes"

//go:embed assets/*.yaml
var assetFS embed.FS

// Names - instruments with a built-in asset, sorted
func Names() []string {
	entries, err := assetFS.ReadDir(assetDir)
	if err != nil {
		return []string{}
	}

	names := []string{}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), assetExt)
		if name != telescopesAsset && !e.IsDir() && strings.HasSuffix(e.Name(), assetExt) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load - instrument from its built-in asset
func Load(name string) (*Spectrograph, error) {
	data, err := assetFS.ReadFile(assetDir + "/" + name + assetExt)
	if err != nil || name == telescopesAsset {
		return nil, errors.Wrapf(ErrUnknownSpectrograph, "%q", name)
	}
	return Parse(data)
}

// Store layout: <root>/<name>/<version>.yaml, eg Spectrographs/magellan_mage/1.1.0.yaml

// StoreVersions - versions of an instrument available in a bucket (or local directory), oldest first
func StoreVersions(fs fileaccess.FileAccess, bucket string, root string, name string) ([]string, error) {
	prefix := path.Join(root, name) + "/"
	paths, err := fs.ListObjects(bucket, prefix)
	if err != nil {
		return nil, err
	}

	versions := []semanticversion.SemanticVersion{}
	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) || !strings.HasSuffix(p, assetExt) {
			continue
		}
		ver, err := semanticversion.SemanticVersionFromString(strings.TrimSuffix(p[len(prefix):], assetExt))
		if err != nil {
			// Not a version file
			continue
		}
		versions = append(versions, *ver)
	}

	sort.Slice(versions, func(i, j int) bool {
		return semanticversion.Compare(versions[i], versions[j]) < 0
	})

	result := make([]string, len(versions))
	for c, v := range versions {
		result[c] = v.String()
	}
	return result, nil
}

// LoadFromStore - instrument asset stored in a bucket (or local directory). An empty version loads
// the newest one.
func LoadFromStore(fs fileaccess.FileAccess, bucket string, root string, name string, version string) (*Spectrograph, error) {
	if len(version) <= 0 {
		versions, err := StoreVersions(fs, bucket, root, name)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, errors.Wrapf(ErrUnknownSpectrograph, "%q: no versions in %v/%v", name, bucket, root)
		}
		version = versions[len(versions)-1]
	}

	assetPath := path.Join(root, name, version+assetExt)
	data, err := fs.ReadObject(bucket, assetPath)
	if err != nil {
		if fs.IsNotFoundError(err) {
			return nil, errors.Wrapf(ErrUnknownSpectrograph, "%q version %v", name, version)
		}
		return nil, err
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.desc.Name != name || s.version.String() != version {
		return nil, errors.Wrapf(ErrInvalidAsset, "%v holds %v version %v", assetPath, s.desc.Name, s.version.String())
	}
	return s, nil
}

// Parse - reads and validates an instrument asset, resolving its strategy names
func Parse(data []byte) (*Spectrograph, error) {
	desc := descriptor{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, errors.Wrapf(ErrInvalidAsset, "%v", err)
	}

	s, err := newSpectrograph(desc)
	if err != nil {
		name := desc.Name
		if len(name) <= 0 {
			name = "unnamed"
		}
		return nil, errors.Wrapf(ErrInvalidAsset, "%v: %v", name, err)
	}
	return s, nil
}

func newSpectrograph(desc descriptor) (*Spectrograph, error) {
	if len(desc.Name) <= 0 {
		return nil, fmt.Errorf("no name")
	}

	ver, err := semanticversion.SemanticVersionFromString(desc.Version)
	if err != nil {
		return nil, err
	}

	if desc.Pipeline != params.PipelineEchelle && desc.Pipeline != params.PipelineMultiSlit {
		return nil, fmt.Errorf("unknown pipeline %q", desc.Pipeline)
	}
	if desc.NumHead < 1 {
		return nil, fmt.Errorf("numhead must be >= 1, got %v", desc.NumHead)
	}
	if desc.NOrders < 1 {
		return nil, fmt.Errorf("norders must be >= 1, got %v", desc.NOrders)
	}

	if len(desc.Detectors) == 0 {
		return nil, fmt.Errorf("no detectors")
	}
	for c, det := range desc.Detectors {
		if err := det.Validate(); err != nil {
			return nil, fmt.Errorf("detector %v: %v", c+1, err)
		}
	}

	if err := desc.Meta.Validate(); err != nil {
		return nil, err
	}
	if err := desc.FrameTypes.Validate(); err != nil {
		return nil, err
	}
	if err := bpm.ValidateRegions(desc.BadPixels, len(desc.Detectors)); err != nil {
		return nil, err
	}
	if err := slitmask.ValidateIllumination(desc.Illumination, desc.NOrders); err != nil {
		return nil, err
	}
	if err := desc.Orders.Validate(desc.NOrders); err != nil {
		return nil, err
	}

	telescopes, err := readTelescopes()
	if err != nil {
		return nil, err
	}
	tel, ok := telescopes[desc.Telescope]
	if !ok {
		return nil, fmt.Errorf("unknown telescope %q", desc.Telescope)
	}

	s := &Spectrograph{desc: desc, version: *ver, telescope: tel}

	if s.bpm, ok = bpmStrategies[desc.Strategies.BPM]; !ok {
		return nil, fmt.Errorf("unknown bpm strategy %q", desc.Strategies.BPM)
	}
	if s.slitMask, ok = slitMaskStrategies[desc.Strategies.SlitMask]; !ok {
		return nil, fmt.Errorf("unknown slitmask strategy %q", desc.Strategies.SlitMask)
	}
	if s.plateScale, ok = plateScaleStrategies[desc.Strategies.PlateScale]; !ok {
		return nil, fmt.Errorf("unknown platescale strategy %q", desc.Strategies.PlateScale)
	}

	// Instrument parameter overrides must produce a valid tree
	if _, err := s.DefaultPar(); err != nil {
		return nil, err
	}

	return s, nil
}
