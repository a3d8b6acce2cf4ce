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

package detector

import (
	"fmt"

	"github.com/specrdx/core/core/pixels"
)

func Example_parseSection() {
	for _, s := range []string{"[1:2048,1:1024]", "[2049:2176,1025:1152]", "[:, 5:10]", "[*,3:]", "1:2,3:4", "[1:2]", "[5:2,1:3]", "[0:4,1:2]", "[a:4,1:2]"} {
		sec, err := ParseSection(s)
		if err != nil {
			fmt.Printf("%v -> err: %v\n", s, err)
			continue
		}
		fmt.Printf("%v -> rows %v cols %v (%v)\n", s, sec.Rows, sec.Cols, sec)
	}

	// Output:
	// [1:2048,1:1024] -> rows {0 1024} cols {0 2048} ([1:2048,1:1024])
	// [2049:2176,1025:1152] -> rows {1024 1152} cols {2048 2176} ([2049:2176,1025:1152])
	// [:, 5:10] -> rows {4 10} cols {0 -1} ([1:,5:10])
	// [*,3:] -> rows {2 -1} cols {0 -1} ([1:,3:])
	// 1:2,3:4 -> err: "1:2,3:4": missing brackets: invalid detector section
	// [1:2] -> err: "[1:2]": expected 2 axes, got 1: invalid detector section
	// [5:2,1:3] -> err: "[5:2,1:3]": range "5:2" is empty or reversed: invalid detector section
	// [0:4,1:2] -> err: "[0:4,1:2]": bad range start "0": invalid detector section
	// [a:4,1:2] -> err: "[a:4,1:2]": bad range start "a": invalid detector section
}

func Example_dataSecImage() {
	secA, _ := ParseSection("[1:2,1:3]")
	secB, _ := ParseSection("[4:5,2:]")
	img := DataSecImage(pixels.Shape{NSpec: 4, NSpat: 6}, []Section{secA, secB})

	for r := 0; r < img.NSpec; r++ {
		fmt.Println(img.Data[r*img.NSpat : (r+1)*img.NSpat])
	}

	// Output:
	// [1 1 0 0 0 0]
	// [1 1 0 2 2 0]
	// [1 1 0 2 2 0]
	// [0 0 0 2 2 0]
}

func Example_par_Validate() {
	p := Par{
		SpecAxis:      0,
		PlateScale:    0.3,
		Saturation:    65535,
		NonLinear:     0.99,
		NumAmplifiers: 1,
		Gain:          []float64{1.02},
		RONoise:       []float64{2.9},
		DataSec:       []string{"[1:2048,1:1024]"},
		OscanSec:      []string{"[2049:2176,1025:1152]"},
	}
	fmt.Println(p.Validate(), p.NonLinearCounts())

	p.Gain = []float64{1, 2}
	fmt.Println(p.Validate())

	p.Gain = []float64{1}
	p.OscanSec = []string{"[2049:2176]"}
	fmt.Println(p.Validate())

	p.OscanSec = []string{"[2049:2176,1025:1152]"}
	p.NonLinear = 1.5
	fmt.Println(p.Validate())

	// Output:
	// <nil> 64879.65
	// expected 1 gain and ronoise values, got 2 and 1
	// oscansec of amplifier 1: "[2049:2176]": expected 2 axes, got 1: invalid detector section
	// nonlinear must be in (0, 1], got 1.5
}
