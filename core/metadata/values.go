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

package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AsFloat - converts a header value (number or numeric string) to float64
func AsFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("value %v of type %T is not a number", v, v)
}

// AsInt - converts a header value to int, only accepting integral values
func AsInt(v interface{}) (int, error) {
	f, err := AsFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
	return int(f), nil
}

// AsString - header value as trimmed text (FITS string cards are often space padded)
func AsString(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%v", v)
}

// ConvertRADec - returns RA and DEC in decimal degrees. Numeric values are taken as degrees already,
// strings are read as sexagesimal "hh:mm:ss.s" (RA, hours) and "+dd:mm:ss.s" (DEC, degrees).
func ConvertRADec(ra interface{}, dec interface{}) (float64, float64, error) {
	raDeg, err := toDegrees(ra, true)
	if err != nil {
		return 0, 0, fmt.Errorf("bad RA: %v", err)
	}
	decDeg, err := toDegrees(dec, false)
	if err != nil {
		return 0, 0, fmt.Errorf("bad DEC: %v", err)
	}
	return raDeg, decDeg, nil
}

func toDegrees(v interface{}, isHours bool) (float64, error) {
	s, ok := v.(string)
	if !ok || !strings.Contains(s, ":") {
		return AsFloat(v)
	}

	txt := strings.TrimSpace(s)
	sign := 1.0
	if strings.HasPrefix(txt, "-") {
		sign = -1
		txt = txt[1:]
	} else if strings.HasPrefix(txt, "+") {
		txt = txt[1:]
	}

	parts := strings.Split(txt, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%q is not of the form a:b:c", s)
	}

	vals := [3]float64{}
	for c, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("%q has a bad component %q", s, p)
		}
		vals[c] = f
	}
	if vals[1] >= 60 || vals[2] >= 60 {
		return 0, fmt.Errorf("%q has minutes or seconds >= 60", s)
	}

	deg := sign * (vals[0] + vals[1]/60 + vals[2]/3600)
	if isHours {
		deg *= 15
	}
	return deg, nil
}
