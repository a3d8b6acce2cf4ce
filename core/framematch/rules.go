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

package framematch

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/utils"
)

// Rule - how one or more frame types are recognised on an instrument.
//   - Never: the instrument has no frames of these types, nothing matches.
//   - IDNames: the frame's idname column must equal one of these exactly.
//   - UseExpRange: the frame's exposure time must also lie in the requested exposure range.
type Rule struct {
	Types       []FrameType `json:"types,omitempty" yaml:"types"`
	Never       bool        `json:"never,omitempty" yaml:"never"`
	IDNames     []string    `json:"idnames,omitempty" yaml:"idnames"`
	UseExpRange bool        `json:"exprng,omitempty" yaml:"exprng"`
}

// Rules - an instrument's frame typing table. The first entry listing a frame type wins, frame
// types not listed anywhere use Default.
type Rules struct {
	Entries []Rule `json:"entries" yaml:"entries"`
	Default *Rule  `json:"default,omitempty" yaml:"default"`
}

// Validate - every frame type must be valid and resolve to a rule, so Check is total
func (r Rules) Validate() error {
	for c, rule := range r.Entries {
		if len(rule.Types) == 0 {
			return fmt.Errorf("frame type rule %v lists no frame types", c)
		}
		for _, ft := range rule.Types {
			if _, err := ParseFrameType(string(ft)); err != nil {
				return errors.Wrapf(err, "frame type rule %v", c)
			}
		}
		if !rule.Never && len(rule.IDNames) == 0 {
			return fmt.Errorf("frame type rule %v (%v) has no idnames", c, rule.Types)
		}
	}

	if r.Default == nil {
		for _, ft := range FrameTypes {
			if _, ok := r.ruleFor(ft); !ok {
				return fmt.Errorf("frame type %v has no rule and there is no default", ft)
			}
		}
	} else if !r.Default.Never && len(r.Default.IDNames) == 0 {
		return fmt.Errorf("default frame type rule has no idnames")
	}
	return nil
}

func (r Rules) ruleFor(ftype FrameType) (Rule, bool) {
	for _, rule := range r.Entries {
		for _, ft := range rule.Types {
			if ft == ftype {
				return rule, true
			}
		}
	}
	if r.Default != nil {
		return *r.Default, true
	}
	return Rule{}, false
}

// Check - selection mask of the rows of table that are of frame type ftype. rng is the exposure
// range configured for ftype, applied only by rules that ask for it.
func (r Rules) Check(ftype FrameType, table FrameTable, rng ExposureRange) ([]bool, error) {
	if _, err := ParseFrameType(string(ftype)); err != nil {
		return nil, err
	}

	rule, ok := r.ruleFor(ftype)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFrameType, "no rule for %v", ftype)
	}

	result := make([]bool, len(table.Rows))
	if rule.Never {
		return result, nil
	}

	for c, row := range table.Rows {
		result[c] = matchesIDName(row.IDName, rule.IDNames) && (!rule.UseExpRange || rng.Contains(row.ExpTime))
	}
	return result, nil
}

func matchesIDName(idname string, accepted []string) bool {
	return utils.ItemInSlice(idname, accepted)
}
