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

// API configuration as read from strings/JSON and some constants defined here also
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/mongoDBConnection"
)

// EnvVarPrefix - environment variables named this + field name override config file values
const EnvVarPrefix = "SPECRDX_CONFIG_"

// Environments where errors are not sent to sentry
const (
	EnvLocal    = "local"
	EnvUnitTest = "unit-test"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Configuration for app

// APIConfig combines env vars and config JSON values
type APIConfig struct {
	AllowedOrigins []string

	// Versioned spectrograph asset files, as <AssetsRoot>/<name>/<version>.yaml. Blank bucket means
	// only the assets built into the binary are served
	AssetsBucket string
	AssetsRoot   string

	AWSRegion  string
	S3Endpoint string // for local S3-compatible stores

	EnvironmentName string

	// Where exported frame tables are written
	ExportBucket string

	LogLevel logger.LogLevel // Can be changed at runtime, but if API restarts, it goes back to configured value

	// Mongo connection, blank host means local mongo (see LOCAL_MONGO_URI)
	MongoHost     string
	MongoUsername string
	MongoPassword string
	MongoCAFile   string

	Port int32

	SentryEndpoint string
}

// MongoConnection - the mongo settings in the form the connection helpers want them
func (c APIConfig) MongoConnection() mongoDBConnection.ConnectionInfo {
	return mongoDBConnection.ConnectionInfo{
		Host:     c.MongoHost,
		Username: c.MongoUsername,
		Password: c.MongoPassword,
		CAFile:   c.MongoCAFile,
	}
}

// SentryEnabled - errors are only reported from deployed environments
func (c APIConfig) SentryEnabled() bool {
	return len(c.SentryEndpoint) > 0 && c.EnvironmentName != EnvLocal && c.EnvironmentName != EnvUnitTest
}

func NewConfigFromFile(configFilePath string) (APIConfig, error) {
	var cfg APIConfig

	fmt.Printf("Loading custom config from: %s\n", configFilePath)
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

func buildConfig(configJson []byte) (APIConfig, error) {
	cfg := APIConfig{LogLevel: logger.LogInfo}

	err := json.Unmarshal(configJson, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse custom config: %v", err)
	}

	// Override Config with any values explicitly set in Env Vars (SPECRDX_CONFIG_*)
	// NOTE: For []string slices, pass in a comma-separated string to the corresponding SPECRDX_CONFIG_ var
	// 			Ex: export SPECRDX_CONFIG_AllowedOrigins="https://a.example.org,https://b.example.org"
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		if val, present := os.LookupEnv(EnvVarPrefix + fieldName); present {
			switch field.Kind() {
			case reflect.String:
				field.SetString(val)
			case reflect.Slice:
				if field.Type().Elem().Kind() == reflect.String {
					slicedVal := strings.Split(val, ",")
					field.Set(reflect.ValueOf(slicedVal))
				}

			case reflect.Int, reflect.Int32:
				i, err := strconv.Atoi(val)
				if err != nil {
					fmt.Printf("Could not cast value %s%s=%s to Int\n", EnvVarPrefix, fieldName, val)
					continue
				}
				field.SetInt(int64(i))
			}
		}
	}

	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if len(cfg.AssetsRoot) <= 0 {
		cfg.AssetsRoot = "spectrographs"
	}

	return cfg, nil
}

// Init config, loads config params
func Init() (APIConfig, error) {
	configFilePath := flag.String("customConfigPath", "", "Path to the json file holding a set of custom config for the spectrograph API")
	port := flag.Int("port", 0, "Overrides the port to listen on")
	flag.Parse()

	var cfg APIConfig
	var err error

	if configFilePath != nil && *configFilePath != "" {
		cfg, err = NewConfigFromFile(*configFilePath)
	} else {
		err = errors.New("no configuration provided")
	}
	if err != nil {
		return cfg, err
	}

	if port != nil && *port > 0 {
		cfg.Port = int32(*port)
	}

	return cfg, nil
}
