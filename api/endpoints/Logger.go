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
	"errors"
	"fmt"

	"github.com/specrdx/core/api/handlers"
	apiRouter "github.com/specrdx/core/api/router"
	"github.com/specrdx/core/core/errorwithstatus"
	"github.com/specrdx/core/core/logger"
)

const logLevelId = "logLevel"

// Loggers whose level can be changed at runtime, eg logger.StdOutLogger
type levelLogger interface {
	SetLogLevel(level logger.LogLevel)
	GetLogLevel() logger.LogLevel
}

func registerLoggerHandler(router *apiRouter.ApiObjectRouter) {
	const pathPrefix = "logger"

	// Adjusting and getting log level
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix, "level"), "GET", getLogLevel)
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix, "level", handlers.Param(logLevelId)), "PUT", putLogLevel)
}

func getLevelLogger(params handlers.ApiHandlerParams) (levelLogger, error) {
	l, ok := params.Svcs.Log.(levelLogger)
	if !ok {
		return nil, errorwithstatus.MakeServiceUnavailableError(errors.New("logger does not support changing log level"))
	}
	return l, nil
}

func getLogLevel(params handlers.ApiHandlerParams) (interface{}, error) {
	l, err := getLevelLogger(params)
	if err != nil {
		return nil, err
	}
	return logger.GetLogLevelName(l.GetLogLevel()), nil
}

func putLogLevel(params handlers.ApiHandlerParams) (interface{}, error) {
	l, err := getLevelLogger(params)
	if err != nil {
		return nil, err
	}

	logLevelName := params.PathParams[logLevelId]
	logLevel := logger.LogLevelFromName(logLevelName)
	if logger.GetLogLevelName(logLevel) != logLevelName {
		return nil, errorwithstatus.MakeBadRequestError(fmt.Errorf("unknown log level: %v", logLevelName))
	}

	l.SetLogLevel(logLevel)

	// Not really an error, but we log in this level to ensure it always gets printed
	params.Svcs.Log.Errorf("Request changed log level to: %v", logLevelName)

	return nil, nil
}
