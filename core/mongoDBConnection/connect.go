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

// Lowest-level code to connect to Mongo DB (locally in Docker and remotely) and get consistent database names.
package mongoDBConnection

import (
	"github.com/specrdx/core/core/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// ConnectionInfo - where the remote DB lives. An empty Host means a local DB with no auth.
type ConnectionInfo struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
	// PEM bundle used to verify the server certificate
	CAFile string `json:"caFile"`
}

func Connect(info ConnectionInfo, iLog logger.ILogger) (*mongo.Client, error) {
	if len(info.Host) <= 0 {
		return connectToLocalMongoDB(iLog)
	}

	return connectToRemoteMongoDB(info, iLog)
}

func GetDatabaseName(dbName string, envName string) string {
	return dbName + "-" + envName
}
