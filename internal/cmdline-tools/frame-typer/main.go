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
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/specrdx/core/core/awsutil"
	"github.com/specrdx/core/core/export"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framestore"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/mongoDBConnection"
	"github.com/specrdx/core/core/spectrograph"
)

// Reads a directory (or S3 prefix) of raw frames, types them and writes the frame table as CSV or
// Excel. Optionally stores the typed rows in the frame catalogue.
func main() {
	var spectrographName string
	var rawPath string
	var outPath string
	var columnsStr string
	var mongoHost string
	var envName string
	var s3Endpoint string
	var verbose bool

	flag.StringVar(&spectrographName, "spectrograph", "", "Instrument name, one of: "+strings.Join(spectrograph.Names(), ","))
	flag.StringVar(&rawPath, "raw", "", "Directory or s3://bucket/prefix holding raw .fits/.fits.gz frames")
	flag.StringVar(&outPath, "out", "", "Output table path, .csv or .xlsx (local or s3://)")
	flag.StringVar(&columnsStr, "columns", "", "Comma separated table columns, blank for the defaults")
	flag.StringVar(&mongoHost, "mongo", "", "Store typed frames in the catalogue: \"local\" or a remote host")
	flag.StringVar(&envName, "env", "local", "Environment name, picks the catalogue database")
	flag.StringVar(&s3Endpoint, "s3endpoint", "", "S3-compatible endpoint, for non-AWS stores")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")

	flag.Parse()

	if len(spectrographName) <= 0 || len(rawPath) <= 0 || len(outPath) <= 0 {
		flag.Usage()
		log.Fatalln("spectrograph, raw and out must be specified")
	}

	fmt.Println("Raw frame typer")
	fmt.Println("===============")
	fmt.Printf(" Spectrograph: \"%v\", raw frames: \"%v\", output: \"%v\"\n", spectrographName, rawPath, outPath)

	jobLog := &logger.StdOutLogger{}
	jobLog.SetLogLevel(logger.LogInfo)
	if verbose {
		jobLog.SetLogLevel(logger.LogDebug)
	}

	s, err := spectrograph.Load(spectrographName)
	if err != nil {
		log.Fatalln(err)
	}

	rawLoc, rawFS := openLocation(rawPath, s3Endpoint)
	outLoc, outFS := openLocation(outPath, s3Endpoint)

	paths, err := spectrograph.ListRawFrames(rawFS, rawLoc.Bucket, rawLoc.Path)
	if err != nil {
		log.Fatalln(err)
	}
	if len(paths) <= 0 {
		log.Fatalf("No raw frames found in %v\n", rawLoc)
	}

	table, err := s.ReadFrameTable(rawFS, rawLoc.Bucket, paths, jobLog)
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

	for _, row := range typed.Rows {
		fmt.Printf(" %-32v %v\n", row.Filename, row.FrameTypeString())
	}

	columns := []string{}
	if len(columnsStr) > 0 {
		columns = strings.Split(columnsStr, ",")
	}

	outBucket, outFile := outLoc.Bucket, outLoc.Path
	if !outLoc.IsS3 {
		// Local output is a file path, not a directory
		outBucket, outFile = "", outLoc.Bucket
	}

	err = export.WriteFrameTable(outFS, outBucket, outFile, typed, columns)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("Wrote %v frame(s) to %v\n", len(typed.Rows), outLoc)

	if len(mongoHost) > 0 {
		info := mongoDBConnection.ConnectionInfo{}
		if mongoHost != "local" {
			info.Host = mongoHost
		}

		client, err := mongoDBConnection.Connect(info, jobLog)
		if err != nil {
			log.Fatalf("Failed to connect to frame catalogue: %v\n", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		defer client.Disconnect(ctx)

		store := framestore.MakeFrameStore(client, envName, jobLog)
		runID, err := store.PutTable(ctx, s.Name(), typed)
		if err != nil {
			log.Fatalf("Failed to store frames: %v\n", err)
		}
		fmt.Printf("Stored frames in catalogue, run id: %v\n", runID)
	}
}

func openLocation(loc string, s3Endpoint string) (fileaccess.Location, fileaccess.FileAccess) {
	parsed, err := fileaccess.ParseLocation(loc)
	if err != nil {
		log.Fatalf("Bad location %v: %v\n", loc, err)
	}

	if !parsed.IsS3 {
		return parsed, &fileaccess.FSAccess{}
	}

	sess, err := awsutil.GetSession()
	if err != nil {
		log.Fatalf("Failed to create AWS session. Error: %v\n", err)
	}
	return parsed, fileaccess.MakeS3Access(awsutil.GetS3(sess, s3Endpoint))
}
