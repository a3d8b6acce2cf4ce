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

package awsutil

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockS3Client - mock S3 client for unit tests. Tests list the requests they expect and queue the
// responses to give back. Don't forget to call FinishTest() at the end of your test to check that
// all calls to S3 were made, and there were no unexpected calls!
type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	// Expected requests
	ExpListObjectsV2Input []s3.ListObjectsV2Input
	ExpGetObjectInput     []s3.GetObjectInput
	ExpPutObjectInput     []s3.PutObjectInput
	ExpDeleteObjectInput  []s3.DeleteObjectInput

	// Responses replayed as each request comes in. A nil response is returned as an error, for
	// GetObject it's a NoSuchKey error
	QueuedListObjectsV2Output []*s3.ListObjectsV2Output
	QueuedGetObjectOutput     []*s3.GetObjectOutput
	QueuedPutObjectOutput     []*s3.PutObjectOutput
	QueuedDeleteObjectOutput  []*s3.DeleteObjectOutput
}

const ErrNoMoreInputsExpected = "No more inputs expected for "
const ErrWrongInput = "Incorrect input in "
const ErrNothingToReturn = "Nothing to return from "
const ErrReturningError = "Returning error from "

// NOTE: This function MUST be called at the end of a unit test/example test. Use defer when declaring MockS3Client!
func (m *MockS3Client) FinishTest() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.getFinishTestResult()

	// Print it so example tests show it in their output
	if err != nil {
		fmt.Println(err)
	}

	return err
}

func (m *MockS3Client) getFinishTestResult() error {
	remaining := []struct {
		name    string
		inputs  int
		outputs int
	}{
		{"ListObjectsV2", len(m.ExpListObjectsV2Input), len(m.QueuedListObjectsV2Output)},
		{"GetObject", len(m.ExpGetObjectInput), len(m.QueuedGetObjectOutput)},
		{"PutObject", len(m.ExpPutObjectInput), len(m.QueuedPutObjectOutput)},
		{"DeleteObject", len(m.ExpDeleteObjectInput), len(m.QueuedDeleteObjectOutput)},
	}

	for _, r := range remaining {
		if r.inputs > 0 {
			return fmt.Errorf("Test expected more %v calls to func", r.name)
		}
		if r.outputs > 0 {
			return fmt.Errorf("Remaining output %v for func", r.name)
		}
	}
	return nil
}

// nextCall - pops the next expected input and queued output for a call, checking the input matches
func nextCall[I any, O any](name string, expected *[]I, outputs *[]*O, describe func(I) string, received I) (*O, error) {
	if len(*expected) <= 0 {
		return nil, errors.New(ErrNoMoreInputsExpected + name)
	}

	exp := (*expected)[0]
	*expected = (*expected)[1:]

	if expStr, inpStr := describe(exp), describe(received); expStr != inpStr {
		return nil, fmt.Errorf("%v expected: \"%v\" S3 recvd: \"%v\"", ErrWrongInput+name, expStr, inpStr)
	}

	if len(*outputs) <= 0 {
		return nil, errors.New(ErrNothingToReturn + name)
	}

	result := (*outputs)[0]
	*outputs = (*outputs)[1:]
	return result, nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	name := "ListObjectsV2"
	result, err := nextCall(name, &m.ExpListObjectsV2Input, &m.QueuedListObjectsV2Output, func(i s3.ListObjectsV2Input) string { return i.String() }, *input)
	if err == nil && result == nil {
		err = errors.New(ErrReturningError + name)
	}
	return result, err
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	name := "GetObject"
	result, err := nextCall(name, &m.ExpGetObjectInput, &m.QueuedGetObjectOutput, func(i s3.GetObjectInput) string { return i.String() }, *input)
	if err == nil && result == nil {
		err = awserr.New(s3.ErrCodeNoSuchKey, ErrReturningError+name, nil)
	}
	return result, err
}

// PutObject - compares bucket, key and body, the body being read fully
func (m *MockS3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	name := "PutObject"
	describe := func(i s3.PutObjectInput) string {
		body := ""
		if i.Body != nil {
			data, err := io.ReadAll(i.Body)
			if err != nil {
				body = "ERROR GETTING DATA"
			} else {
				body = string(data)
			}
		}
		return fmt.Sprintf("%v/%v: %v", deref(i.Bucket), deref(i.Key), body)
	}

	result, err := nextCall(name, &m.ExpPutObjectInput, &m.QueuedPutObjectOutput, describe, *input)
	if err == nil && result == nil {
		err = errors.New(ErrReturningError + name)
	}
	return result, err
}

func (m *MockS3Client) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	name := "DeleteObject"
	result, err := nextCall(name, &m.ExpDeleteObjectInput, &m.QueuedDeleteObjectOutput, func(i s3.DeleteObjectInput) string { return i.String() }, *input)
	if err == nil && result == nil {
		err = errors.New(ErrReturningError + name)
	}
	return result, err
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
