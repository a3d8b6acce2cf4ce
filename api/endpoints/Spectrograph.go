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

package endpoints

import (
	"fmt"
	"io"
	"strconv"

	"github.com/specrdx/core/api/handlers"
	apiRouter "github.com/specrdx/core/api/router"
	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/errorwithstatus"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/slitmask"
	"github.com/specrdx/core/core/spectrograph"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Spectrograph queries

const spectrographPathPrefix = "spectrograph"

const idIdentifier = "id"
const frameTypeIdentifier = "ftype"
const detIdentifier = "det"
const nspecIdentifier = "nspec"
const nspatIdentifier = "nspat"
const binningIdentifier = "binning"
const padIdentifier = "pad"

// MaskedRange - half-open [Start, Stop) run of fully masked rows or columns
type MaskedRange struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

type bpmResponse struct {
	Det int `json:"det"`
	pixels.Shape
	NMasked       int           `json:"nmasked"`
	MaskedColumns []MaskedRange `json:"maskedColumns"`
	MaskedRows    []MaskedRange `json:"maskedRows"`
}

type slitMaskResponse struct {
	pixels.Shape
	Labels []int `json:"labels"`
	// Physical order number of each label, NoSlit excluded
	Orders map[string]int `json:"orders"`
	Data   []int          `json:"data"`
}

type ordersResponse struct {
	Binning    binning.Binning `json:"binning"`
	Orders     []int           `json:"orders"`
	PlateScale []float64       `json:"platescale"`
}

func registerSpectrographHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix), "GET", spectrographList)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier)), "GET", spectrographGet)

	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "par"), "GET", spectrographParGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "par"), "POST", spectrographParPost)

	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "metadata"), "POST", spectrographMetadataPost)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "frametype", handlers.Param(frameTypeIdentifier)), "POST", spectrographFrameTypePost)

	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "bpm"), "GET", spectrographBPMGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "slitmask"), "POST", spectrographSlitMaskPost)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "orders"), "GET", spectrographOrdersGet)
}

func getSpectrograph(params handlers.ApiHandlerParams) (*spectrograph.Spectrograph, error) {
	return params.Svcs.Spectrographs.Get(params.PathParams[idIdentifier])
}

// Reads an optional integer query parameter
func intParam(params handlers.ApiHandlerParams, name string, defaultValue int) (int, error) {
	str, ok := params.PathParams[name]
	if !ok || len(str) <= 0 {
		return defaultValue, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, errorwithstatus.MakeBadRequestError(fmt.Errorf("%v: expected integer, got \"%v\"", name, str))
	}
	return v, nil
}

func binningParam(params handlers.ApiHandlerParams) (binning.Binning, error) {
	str, ok := params.PathParams[binningIdentifier]
	if !ok || len(str) <= 0 {
		return binning.None, nil
	}
	return binning.FromString(str)
}

func spectrographList(params handlers.ApiHandlerParams) (interface{}, error) {
	return params.Svcs.Spectrographs.Names()
}

func spectrographGet(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}
	return s.Profile(), nil
}

func spectrographParGet(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}
	return s.DefaultPar()
}

// Body is a YAML or JSON override file, applied on top of the instrument defaults
func spectrographParPost(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(params.Request.Body)
	if err != nil {
		return nil, errorwithstatus.MakeBadRequestError(err)
	}

	par, err := s.Par(body)
	if err != nil {
		return nil, errorwithstatus.MakeBadRequestError(err)
	}
	return par, nil
}

func spectrographMetadataPost(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	headers := []metadata.Header{}
	if err := handlers.ReadJSONBody(params.Request, &headers); err != nil {
		return nil, err
	}

	return s.Meta(headers, params.Svcs.Log)
}

// Body is a frame table, returns which rows are of the requested type
func spectrographFrameTypePost(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	ftype, err := framematch.ParseFrameType(params.PathParams[frameTypeIdentifier])
	if err != nil {
		return nil, err
	}

	table := framematch.FrameTable{}
	if err := handlers.ReadJSONBody(params.Request, &table); err != nil {
		return nil, err
	}

	par, err := s.DefaultPar()
	if err != nil {
		return nil, err
	}

	return s.CheckFrameType(ftype, table, par.ExposureRanges()[ftype])
}

func spectrographBPMGet(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	det, err := intParam(params, detIdentifier, 1)
	if err != nil {
		return nil, err
	}

	nspec, err := intParam(params, nspecIdentifier, 0)
	if err != nil {
		return nil, err
	}
	nspat, err := intParam(params, nspatIdentifier, 0)
	if err != nil {
		return nil, err
	}

	shape := pixels.Shape{NSpec: nspec, NSpat: nspat}
	mask, err := s.BPM(shape, det, params.Svcs.Log)
	if err != nil {
		return nil, err
	}

	return bpmResponse{
		Det:           det,
		Shape:         mask.Shape,
		NMasked:       mask.Count(),
		MaskedColumns: maskedColumns(mask),
		MaskedRows:    maskedRows(mask),
	}, nil
}

func maskedColumns(mask *pixels.BoolImage) []MaskedRange {
	full := make([]bool, mask.NSpat)
	for spat := 0; spat < mask.NSpat; spat++ {
		full[spat] = true
		for spec := 0; spec < mask.NSpec; spec++ {
			if !mask.At(spec, spat) {
				full[spat] = false
				break
			}
		}
	}
	return runs(full)
}

func maskedRows(mask *pixels.BoolImage) []MaskedRange {
	full := make([]bool, mask.NSpec)
	for spec := 0; spec < mask.NSpec; spec++ {
		full[spec] = true
		for spat := 0; spat < mask.NSpat; spat++ {
			if !mask.At(spec, spat) {
				full[spec] = false
				break
			}
		}
	}
	return runs(full)
}

func runs(flags []bool) []MaskedRange {
	result := []MaskedRange{}
	for c := 0; c < len(flags); c++ {
		if !flags[c] {
			continue
		}

		start := c
		for c < len(flags) && flags[c] {
			c++
		}
		result = append(result, MaskedRange{Start: start, Stop: c})
	}
	return result
}

// Body is the traced slit edges, query may carry binning and pad
func spectrographSlitMaskPost(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	bin, err := binningParam(params)
	if err != nil {
		return nil, err
	}

	var pad *float64
	if str, ok := params.PathParams[padIdentifier]; ok && len(str) > 0 {
		p, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, errorwithstatus.MakeBadRequestError(fmt.Errorf("%v: expected number, got \"%v\"", padIdentifier, str))
		}
		pad = &p
	}

	slits := slitmask.TraceSlits{}
	if err := handlers.ReadJSONBody(params.Request, &slits); err != nil {
		return nil, err
	}

	img, err := s.SlitMask(slits, pad, bin)
	if err != nil {
		return nil, errorwithstatus.MakeBadRequestError(err)
	}

	result := slitMaskResponse{Shape: img.Shape, Labels: img.Labels(), Orders: map[string]int{}, Data: img.Data}
	for _, label := range result.Labels {
		if label == pixels.NoSlit {
			continue
		}

		order, err := s.SlitToOrder(label)
		if err != nil {
			return nil, err
		}
		result.Orders[strconv.Itoa(label)] = order
	}

	return result, nil
}

func spectrographOrdersGet(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	bin, err := binningParam(params)
	if err != nil {
		return nil, err
	}

	return ordersResponse{
		Binning:    bin,
		Orders:     s.OrderTable().Orders,
		PlateScale: s.OrderPlateScale(bin),
	}, nil
}
