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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/specrdx/core/core/awsutil"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/imgFormat"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/spectrograph"
	"github.com/specrdx/core/core/traceimage"
)

// Combines raw flats into a trace image and writes it as FITS
func main() {
	var spectrographName string
	var rawPath string
	var filesStr string
	var det int
	var outPath string
	var bpmOutPath string
	var s3Endpoint string

	flag.StringVar(&spectrographName, "spectrograph", "", "Instrument name, one of: "+strings.Join(spectrograph.Names(), ","))
	flag.StringVar(&rawPath, "raw", "", "Directory or s3://bucket/prefix holding raw .fits/.fits.gz frames")
	flag.StringVar(&filesStr, "files", "", "Comma separated raw file names to combine. Blank uses every frame typed as trace")
	flag.IntVar(&det, "det", 1, "Detector number, from 1")
	flag.StringVar(&outPath, "out", "", "Output FITS file path")
	flag.StringVar(&bpmOutPath, "bpm-out", "", "Optional FITS file path for the bad pixel mask")
	flag.StringVar(&s3Endpoint, "s3endpoint", "", "S3-compatible endpoint, for non-AWS stores")

	flag.Parse()

	if len(spectrographName) <= 0 || len(rawPath) <= 0 || len(outPath) <= 0 {
		flag.Usage()
		log.Fatalln("spectrograph, raw and out must be specified")
	}

	fmt.Println("Trace image builder")
	fmt.Println("===================")
	fmt.Printf(" Spectrograph: \"%v\", raw frames: \"%v\", det: %v, output: \"%v\"\n", spectrographName, rawPath, det, outPath)

	jobLog := &logger.StdOutLogger{}
	jobLog.SetLogLevel(logger.LogInfo)

	s, err := spectrograph.Load(spectrographName)
	if err != nil {
		log.Fatalln(err)
	}

	rawLoc, err := fileaccess.ParseLocation(rawPath)
	if err != nil {
		log.Fatalln(err)
	}

	var fs fileaccess.FileAccess = &fileaccess.FSAccess{}
	if rawLoc.IsS3 {
		sess, err := awsutil.GetSession()
		if err != nil {
			log.Fatalf("Failed to create AWS session. Error: %v\n", err)
		}
		fs = fileaccess.MakeS3Access(awsutil.GetS3(sess, s3Endpoint))
	}

	paths, err := spectrograph.ListRawFrames(fs, rawLoc.Bucket, rawLoc.Path)
	if err != nil {
		log.Fatalln(err)
	}

	pathByName := map[string]string{}
	for _, p := range paths {
		pathByName[path.Base(p)] = p
	}

	var files []string
	if len(filesStr) > 0 {
		files = strings.Split(filesStr, ",")
	} else {
		files = traceFiles(s, fs, rawLoc.Bucket, paths, jobLog)
	}

	par, err := s.DefaultPar()
	if err != nil {
		log.Fatalln(err)
	}

	trace, err := traceimage.New(s, files, det, &par.Calibrations.TraceFrame, jobLog)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("Combining %v file(s): %v\n", trace.NFiles(), strings.Join(files, ", "))

	img, err := trace.BuildImage(func(file string) (*imgFormat.RawFrame, error) {
		p, ok := pathByName[file]
		if !ok {
			return nil, fmt.Errorf("%v not found in %v", file, rawLoc)
		}
		return imgFormat.ReadFITSFile(fs, rawLoc.Bucket, p)
	})
	if err != nil {
		log.Fatalln(err)
	}

	cards := metadata.Header{
		"INSTRUME": s.Name(),
		"DET":      det,
		"NFILES":   trace.NFiles(),
		"PROCSTEP": strings.Join(trace.ProcessSteps, ","),
		"COMBINE":  trace.Process.Combine,
	}
	writeFITS(outPath, img, cards)
	fmt.Printf("Wrote trace image %v to %v\n", img.Shape, outPath)

	if len(bpmOutPath) > 0 {
		mask, err := s.BPM(img.Shape, det, jobLog)
		if err != nil {
			log.Fatalln(err)
		}

		maskImg := pixels.NewFloatImage(mask.Shape)
		for c, bad := range mask.Data {
			if bad {
				maskImg.Data[c] = 1
			}
		}

		writeFITS(bpmOutPath, maskImg, metadata.Header{"INSTRUME": s.Name(), "DET": det, "NMASKED": mask.Count()})
		fmt.Printf("Wrote bad pixel mask with %v masked pixel(s) to %v\n", mask.Count(), bpmOutPath)
	}
}

// Types every raw frame and picks the trace flats
func traceFiles(s *spectrograph.Spectrograph, fs fileaccess.FileAccess, bucket string, paths []string, jobLog logger.ILogger) []string {
	table, err := s.ReadFrameTable(fs, bucket, paths, jobLog)
	if err != nil {
		log.Fatalln(err)
	}

	par, err := s.DefaultPar()
	if err != nil {
		log.Fatalln(err)
	}

	typed, err := s.TypeFrames(table, par)
	if err != nil {
		log.Fatalln(err)
	}

	files := typed.FilesOfType(framematch.Trace)
	if len(files) <= 0 {
		log.Fatalln("No trace frames found")
	}
	return files
}

func writeFITS(outPath string, img *pixels.FloatImage, cards metadata.Header) {
	var buf bytes.Buffer
	if err := imgFormat.WriteFITS(&buf, img, cards); err != nil {
		log.Fatalln(err)
	}

	fs := &fileaccess.FSAccess{}
	if err := fs.WriteObject("", outPath, buf.Bytes()); err != nil {
		log.Fatalf("Failed to write %v: %v\n", outPath, err)
	}
}
