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
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/api"
	"github.com/specrdx/core/core/logger"
)

// How much of the request body to log
const bodyTextReqLogLength = 200

// How much of the response body to log, from the start and the end
const bodyTextRespLogHeadLength = 600
const bodyTextRespLogTailLength = 300

const logSnipIndicator = "\n    ---- >8 -------- >8 -------- >8 -------- >8 ----\n"

type LoggerMiddleware struct {
	*services.APIServices
}

func snip(txt string, head int, tail int) string {
	if len(txt) <= head+tail {
		return txt
	}
	result := txt[0:head] + logSnipIndicator
	if tail > 0 {
		result += txt[len(txt)-tail:]
	}
	return result
}

func (h *LoggerMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Read the HTTP body. We can log it here if required, and then we pass it into the next in chain
		bodyBytes, err := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		reqBodyText := "REQ BODY ERROR"
		if err == nil {
			reqBodyText = snip(string(bodyBytes), bodyTextReqLogLength, 0)
		}

		// Store the response as it's written so we can log it
		buf := new(bytes.Buffer)
		w2 := &api.ResponseWriterWithCopy{RealWriter: w, Body: buf, Status: 0}

		next.ServeHTTP(w2, r)

		// We only log if we're in debug log level OR we detected an error
		hadError := w2.Status != 0 && w2.Status != http.StatusOK && w2.Status != http.StatusNotModified

		// Downloads are binary, no point logging them
		respBodyTxt := fmt.Sprintf("Body data length: %v bytes", buf.Len())
		if w2.Header().Get("Content-Type") != "application/octet-stream" {
			respBodyTxt = snip(buf.String(), bodyTextRespLogHeadLength, bodyTextRespLogTailLength)
		}

		level := logger.LogDebug
		if hadError {
			level = logger.LogError

			if h.Config.SentryEnabled() {
				sentry.CaptureMessage(fmt.Sprintf("API returned %v for %v \"%v %v\", query params: %v. Response body: \"%v\"",
					w2.Status,
					r.Method,
					r.Host,
					r.URL,
					r.URL.Query(),
					respBodyTxt,
				))
			}
		}

		// Don't log requests to / as load balancers poll it constantly
		if r.URL.Path != "/" && (hadError || h.Config.LogLevel == logger.LogDebug) {
			h.Log.Printf(level, "Request: %v (%v), body: %v\nResponse status: %v, body: %v", r.URL, r.Method, reqBodyText, w2.StatusText(), respBodyTxt)
		}
	})
}
