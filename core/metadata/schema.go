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

// Package metadata maps raw per-extension FITS header cards onto the canonical metadata keys
// used when building frame tables (ra, dec, target, exptime, binning...).
package metadata

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/logger"
)

var (
	// ErrMissingCard - a simple metadata lookup found no such extension or card
	ErrMissingCard = errors.New("missing header card")
	// ErrUnknownKey - the schema has no rule for the requested key
	ErrUnknownKey = errors.New("unknown metadata key")
	// ErrNoDerivation - a compound key names a derivation that isn't registered
	ErrNoDerivation = errors.New("no derivation for compound metadata key")
)

// Canonical metadata keys
const (
	KeyRA       = "ra"
	KeyDec      = "dec"
	KeyTarget   = "target"
	KeyDecker   = "decker"
	KeyBinning  = "binning"
	KeyMJD      = "mjd"
	KeyExpTime  = "exptime"
	KeyAirmass  = "airmass"
	KeyDispName = "dispname"
	KeyIDName   = "idname"
)

// RequiredKeys - keys every frame must resolve, Extract fails without them
var RequiredKeys = []string{KeyTarget, KeyBinning, KeyMJD, KeyExpTime}

// Header - one header/data unit's cards, card name to scalar value
type Header map[string]interface{}

// Rule - how to get one metadata value. A simple rule reads Card from extension Ext. A compound
// rule instead calls the derivation named Derive, which may read any of Cards from extension Ext.
type Rule struct {
	Ext      int      `json:"ext" yaml:"ext"`
	Card     string   `json:"card,omitempty" yaml:"card"`
	Compound bool     `json:"compound,omitempty" yaml:"compound"`
	Derive   string   `json:"derive,omitempty" yaml:"derive"`
	Cards    []string `json:"cards,omitempty" yaml:"cards"`
}

// Schema - canonical key to extraction rule, one per instrument
type Schema map[string]Rule

// Validate - checks every rule can be executed: simple rules need a card, compound rules need a
// registered derivation
func (s Schema) Validate() error {
	for _, key := range s.Keys() {
		rule := s[key]
		if rule.Ext < 0 {
			return fmt.Errorf("metadata key %v: negative extension %v", key, rule.Ext)
		}
		if rule.Compound {
			if _, ok := Derivations[rule.Derive]; !ok {
				return errors.Wrapf(ErrNoDerivation, "metadata key %v, derivation %q", key, rule.Derive)
			}
		} else if len(rule.Card) <= 0 {
			return fmt.Errorf("metadata key %v: no header card defined", key)
		}
	}

	for _, key := range RequiredKeys {
		if _, ok := s[key]; !ok {
			return errors.Wrapf(ErrUnknownKey, "required key %v not in schema", key)
		}
	}
	return nil
}

// Keys - the schema's keys, sorted
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get - reads the value of one canonical key from a frame's headers
func (s Schema) Get(headers []Header, key string) (interface{}, error) {
	rule, ok := s[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKey, "%v", key)
	}

	if rule.Compound {
		derive, ok := Derivations[rule.Derive]
		if !ok {
			return nil, errors.Wrapf(ErrNoDerivation, "metadata key %v, derivation %q", key, rule.Derive)
		}
		return derive(headers, rule)
	}

	return Card(headers, rule.Ext, rule.Card)
}

// Card - reads a single card from the given extension
func Card(headers []Header, ext int, card string) (interface{}, error) {
	if ext < 0 || ext >= len(headers) {
		return nil, errors.Wrapf(ErrMissingCard, "extension %v not present (%v headers), wanted card %v", ext, len(headers), card)
	}

	v, ok := headers[ext][card]
	if !ok || v == nil {
		return nil, errors.Wrapf(ErrMissingCard, "card %v not in extension %v", card, ext)
	}
	return v, nil
}

// Extract - reads every key in the schema. Failing required keys is an error, other keys that
// can't be read are left out of the result.
func (s Schema) Extract(headers []Header, log logger.ILogger) (map[string]interface{}, error) {
	result := map[string]interface{}{}

	for _, key := range s.Keys() {
		v, err := s.Get(headers, key)
		if err != nil {
			if isRequired(key) {
				return nil, errors.Wrapf(err, "required metadata %v", key)
			}
			log.Debugf("Skipping metadata %v: %v", key, err)
			continue
		}
		result[key] = v
	}

	return result, nil
}

func isRequired(key string) bool {
	for _, k := range RequiredKeys {
		if k == key {
			return true
		}
	}
	return false
}
