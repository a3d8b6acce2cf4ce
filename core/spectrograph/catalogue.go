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

package spectrograph

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/utils"
)

// Catalogue - instruments available to a service. When a store is configured, the newest stored
// version of an instrument is preferred over the built-in asset. Loaded instruments are cached, the
// catalogue is safe for concurrent use.
type Catalogue struct {
	fs     fileaccess.FileAccess
	bucket string
	root   string
	log    logger.ILogger

	mu    sync.Mutex
	cache map[string]*Spectrograph
}

// NewCatalogue - fs may be nil (or bucket empty) to serve only built-in assets
func NewCatalogue(fs fileaccess.FileAccess, bucket string, root string, log logger.ILogger) *Catalogue {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Catalogue{fs: fs, bucket: bucket, root: root, log: log, cache: map[string]*Spectrograph{}}
}

func (c *Catalogue) hasStore() bool {
	return c.fs != nil && len(c.bucket) > 0
}

// Names - built-in and stored instrument names, sorted
func (c *Catalogue) Names() ([]string, error) {
	names := map[string]bool{}
	for _, n := range Names() {
		names[n] = true
	}

	if c.hasStore() {
		prefix := strings.TrimSuffix(c.root, "/") + "/"
		paths, err := c.fs.ListObjects(c.bucket, prefix)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list stored spectrographs")
		}

		for _, p := range paths {
			parts := strings.Split(strings.TrimPrefix(p, prefix), "/")
			if len(parts) == 2 && strings.HasSuffix(parts[1], assetExt) {
				names[parts[0]] = true
			}
		}
	}

	return utils.GetSortedMapKeys(names), nil
}

// Get - the named instrument
func (c *Catalogue) Get(name string) (*Spectrograph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.cache[name]; ok {
		return s, nil
	}

	s, err := c.load(name)
	if err != nil {
		return nil, err
	}

	c.cache[name] = s
	return s, nil
}

func (c *Catalogue) load(name string) (*Spectrograph, error) {
	if c.hasStore() {
		s, err := LoadFromStore(c.fs, c.bucket, c.root, name, "")
		if err == nil {
			c.log.Infof("Loaded %v version %v from %v/%v", name, s.Version().String(), c.bucket, c.root)
			return s, nil
		}
		if errors.Cause(err) != ErrUnknownSpectrograph {
			return nil, err
		}
	}

	return Load(name)
}

// Reload - drops cached instruments so the next Get re-reads the store
func (c *Catalogue) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = map[string]*Spectrograph{}
}
