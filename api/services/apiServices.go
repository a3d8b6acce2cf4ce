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

package services

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/getsentry/sentry-go"
	"github.com/specrdx/core/api/config"
	"github.com/specrdx/core/core/awsutil"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/framestore"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/mongoDBConnection"
	"github.com/specrdx/core/core/spectrograph"
	"github.com/specrdx/core/core/timestamper"
	"go.mongodb.org/mongo-driver/mongo"
)

// NOTE: these 2 vars are set during compilation with -ldflags "-X ..."
var ApiVersion string
var GitHash string

// This defines some generic interfaces that are used by the API code. Instead of using a bunch of
// global variables we pass around this services object and other code has access to a logger,
// the spectrograph catalogue etc.
// This comes in very useful when writing unit tests, since we can mock these interfaces

// ExportZipper - Interface for creating an export zip file
type ExportZipper interface {
	MakeExportFilesZip(string, framematch.FrameTable, []string, []string) ([]byte, error)
}

// FrameCatalogue - stored frame tables, implemented by framestore.FrameStore
type FrameCatalogue interface {
	PutTable(ctx context.Context, instrument string, table framematch.FrameTable) (string, error)
	Table(ctx context.Context, instrument string) (framematch.FrameTable, error)
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////

// APIServices contains any services that HTTP handlers would want to use, like logging/config reading
type APIServices struct {
	// Configuration read in on startup
	Config config.APIConfig

	// Default logger
	Log logger.ILogger

	// Anything talking to S3 should use this. Nil when running on local storage
	S3 s3iface.S3API

	// Anything accessing files should use this
	FS fileaccess.FileAccess

	// Instruments we can serve
	Spectrographs *spectrograph.Catalogue

	// Zip File Generator
	Exporter ExportZipper

	// Frame catalogue, nil if no DB is configured
	Frames FrameCatalogue

	// Timestamp retriever - so can be mocked for unit tests
	TimeStamper timestamper.ITimeStamper

	// Our mongo db connection
	Mongo *mongo.Client
}

// InitAPIServices sets up a new APIServices instance
func InitAPIServices(cfg config.APIConfig, exporter ExportZipper) (APIServices, error) {
	ourLogger := &logger.StdOutLogger{}
	ourLogger.SetLogLevel(cfg.LogLevel)

	if cfg.SentryEnabled() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryEndpoint,
			Environment: cfg.EnvironmentName,
			Release:     ApiVersion,
		}); err != nil {
			ourLogger.Errorf("Sentry initialization failed: %v", err)
		}
	}

	svcs := APIServices{
		Config:      cfg,
		Log:         ourLogger,
		Exporter:    exporter,
		TimeStamper: &timestamper.UnixTimeNowStamper{},
	}

	// No region configured means buckets are local directories
	if len(cfg.AWSRegion) > 0 {
		sess, err := awsutil.GetSessionWithRegion(cfg.AWSRegion)
		if err != nil {
			return svcs, fmt.Errorf("Failed to create AWS session. Error: %v", err)
		}

		svcs.S3 = awsutil.GetS3(sess, cfg.S3Endpoint)
		svcs.FS = fileaccess.MakeS3Access(svcs.S3)
	} else {
		ourLogger.Infof("No AWS region configured, using local storage")
		svcs.FS = &fileaccess.FSAccess{}
	}

	svcs.Spectrographs = spectrograph.NewCatalogue(svcs.FS, cfg.AssetsBucket, cfg.AssetsRoot, ourLogger)

	if len(cfg.MongoHost) > 0 || len(os.Getenv(mongoDBConnection.LocalURIEnvVar)) > 0 {
		mongoClient, err := mongoDBConnection.Connect(cfg.MongoConnection(), ourLogger)
		if err != nil {
			return svcs, fmt.Errorf("failed to connect to mongo: %v", err)
		}

		svcs.Mongo = mongoClient
		svcs.Frames = framestore.MakeFrameStore(mongoClient, cfg.EnvironmentName, ourLogger)
	} else {
		ourLogger.Infof("No mongo DB configured, frame catalogue disabled")
	}

	return svcs, nil
}
