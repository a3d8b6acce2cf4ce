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

package fileaccess

import (
	"fmt"
	"strings"
)

// Generic interface for reading/writing instrument assets, raw frames and exported tables.
// The same code runs against a local directory (bucket = root directory) or an AWS S3 bucket.

type FileAccess interface {
	// ListObjects - paths of every object under prefix, relative to the bucket
	ListObjects(bucket string, prefix string) ([]string, error)

	ReadObject(bucket string, path string) ([]byte, error)
	WriteObject(bucket string, path string, data []byte) error

	ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error
	WriteJSON(bucket string, path string, itemsPtr interface{}) error

	DeleteObject(bucket string, path string) error

	IsNotFoundError(err error) bool
}

// Location - where a set of files lives, either a local directory or an S3 bucket + prefix
type Location struct {
	Bucket string
	Path   string
	IsS3   bool
}

// ParseLocation - reads "s3://bucket/some/prefix" or a local directory path
func ParseLocation(loc string) (Location, error) {
	if !strings.HasPrefix(loc, "s3://") {
		if len(loc) <= 0 {
			return Location{}, fmt.Errorf("empty location")
		}
		return Location{Bucket: loc}, nil
	}

	bucket, err := GetBucketFromS3Url(loc)
	if err != nil {
		return Location{}, err
	}
	p, err := GetPathFromS3Url(loc)
	if err != nil {
		return Location{}, err
	}
	return Location{Bucket: bucket, Path: p, IsS3: true}, nil
}

func (l Location) String() string {
	if l.IsS3 {
		return "s3://" + l.Bucket + "/" + l.Path
	}
	return l.Bucket
}

func GetBucketFromS3Url(url string) (string, error) {
	trimmedUrl := strings.TrimPrefix(url, "s3://")
	if trimmedUrl == url {
		return "", fmt.Errorf("GetBucketFromS3Url parameter was not a valid S3 url: %v", url)
	}

	// Get the bit before the first slash, that's the bucket
	slashPos := strings.Index(trimmedUrl, "/")
	if slashPos < 0 && len(trimmedUrl) > 0 {
		return trimmedUrl, nil
	}
	if slashPos <= 0 {
		return "", fmt.Errorf("GetBucketFromS3Url failed to get bucket from S3 url: %v", url)
	}

	return trimmedUrl[0:slashPos], nil
}

func GetPathFromS3Url(url string) (string, error) {
	trimmedUrl := strings.TrimPrefix(url, "s3://")
	if trimmedUrl == url {
		return "", fmt.Errorf("GetPathFromS3Url parameter was not a valid S3 url: %v", url)
	}

	slashPos := strings.Index(trimmedUrl, "/")
	if slashPos < 0 && len(trimmedUrl) > 0 {
		// Just a bucket
		return "", nil
	}
	if slashPos <= 0 {
		return "", fmt.Errorf("GetPathFromS3Url failed to get path from S3 url: %v", url)
	}

	return trimmedUrl[slashPos+1:], nil
}
