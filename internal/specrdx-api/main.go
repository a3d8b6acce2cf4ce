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
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specrdx/core/api/config"
	"github.com/specrdx/core/api/endpoints"
	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/export"
	"github.com/specrdx/core/core/utils"
)

func main() {
	// This is for prometheus
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(":2112", nil)
	}()

	cfg := loadConfig()

	svcs, err := services.InitAPIServices(cfg, &export.Exporter{})
	if err != nil {
		log.Fatalf("Failed to initialise services: %v", err)
	}

	router := endpoints.MakeRouter(svcs)

	// Setup middleware
	printRoutes(router.GetRoutes())

	logware := endpoints.LoggerMiddleware{APIServices: router.Svcs}
	router.Router.Use(logware.Middleware, endpoints.PrometheusMiddleware)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) <= 0 {
		allowedOrigins = []string{"*"}
	}

	// Now also log this to the world...
	svcs.Log.Infof("API version \"%v\" started on port %v...", services.ApiVersion, cfg.Port)

	log.Fatal(
		http.ListenAndServe(fmt.Sprintf(":%v", cfg.Port),
			handlers.CORS(
				handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
				handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS"}),
				handlers.AllowedOrigins(allowedOrigins))(router.Router)))
}

func loadConfig() config.APIConfig {
	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Something went wrong with API config. Error: %v\n", err)
	}

	// Show the config, minus the DB password
	shown := cfg
	if len(shown.MongoPassword) > 0 {
		shown.MongoPassword = "***"
	}

	cfgJSON, err := json.MarshalIndent(shown, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		log.Fatalf("Error trying to display config\n")
	}

	log.Println(string(cfgJSON))
	return cfg
}
