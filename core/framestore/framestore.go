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

// Package framestore keeps a catalogue of typed raw frames in Mongo DB, one document per
// (instrument, file), so frame tables built by separate runs can be listed together.
package framestore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/idgen"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/mongoDBConnection"
	"github.com/specrdx/core/core/timestamper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName     = "specrdx"
	FramesCollection = "frames"
)

// ErrNotFound - no catalogue entry for the requested file
var ErrNotFound = errors.New("frame not found")

// FrameRecord - one catalogued raw frame
type FrameRecord struct {
	ID                  string `json:"id" bson:"_id"`
	Instrument          string `json:"instrument" bson:"instrument"`
	framematch.FrameRow `bson:",inline"`
	MJD                 float64 `json:"mjd" bson:"mjd"`
	// Pointing in decimal degrees, nil if the headers had none or it couldn't be read
	RADeg  *float64 `json:"raDeg,omitempty" bson:"radeg,omitempty"`
	DecDeg *float64 `json:"decDeg,omitempty" bson:"decdeg,omitempty"`
	// Groups records written by the same typing run
	RunID            string `json:"runId" bson:"runid"`
	TimeStampUnixSec int64  `json:"timeStampUnixSec" bson:"timestampunixsec"`
}

func recordID(instrument string, filename string) string {
	return instrument + "/" + filename
}

type FrameStore struct {
	Frames *mongo.Collection

	// Stamps records as they're stored
	TimeStamper timestamper.ITimeStamper

	// Makes run ids
	IDGen idgen.IDGenerator

	log logger.ILogger
}

func MakeFrameStore(client *mongo.Client, envName string, log logger.ILogger) *FrameStore {
	db := client.Database(mongoDBConnection.GetDatabaseName(DatabaseName, envName))
	return &FrameStore{
		Frames:      db.Collection(FramesCollection),
		TimeStamper: &timestamper.UnixTimeNowStamper{},
		IDGen:       &idgen.IDGen{},
		log:         log,
	}
}

// MakeRecord - catalogue entry for a typed frame row. The MJD is taken from the row's metadata,
// rows without one sort first. RA/DEC are stored in decimal degrees whether the headers gave
// degrees or sexagesimal strings.
func MakeRecord(instrument string, row framematch.FrameRow, runID string) FrameRecord {
	rec := FrameRecord{
		ID:         recordID(instrument, row.Filename),
		Instrument: instrument,
		FrameRow:   row,
		RunID:      runID,
	}

	if v, ok := row.Meta[metadata.KeyMJD]; ok {
		if mjd, err := metadata.AsFloat(v); err == nil {
			rec.MJD = mjd
		}
	}

	ra, raOK := row.Meta[metadata.KeyRA]
	dec, decOK := row.Meta[metadata.KeyDec]
	if raOK && decOK {
		if raDeg, decDeg, err := metadata.ConvertRADec(ra, dec); err == nil {
			rec.RADeg = &raDeg
			rec.DecDeg = &decDeg
		}
	}
	return rec
}

// Put - inserts or replaces the entry for rec's instrument and file
func (s *FrameStore) Put(ctx context.Context, rec FrameRecord) error {
	if len(rec.Instrument) <= 0 || len(rec.Filename) <= 0 {
		return errors.New("frame record needs an instrument and a filename")
	}

	rec.ID = recordID(rec.Instrument, rec.Filename)
	rec.TimeStampUnixSec = s.TimeStamper.GetTimeNowSec()

	opts := options.Replace().SetUpsert(true)
	_, err := s.Frames.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts)
	if err != nil {
		return errors.Wrapf(err, "failed to store frame %v", rec.ID)
	}
	return nil
}

// PutTable - stores every row of a typed table under a fresh run id, which is returned
func (s *FrameStore) PutTable(ctx context.Context, instrument string, table framematch.FrameTable) (string, error) {
	runID := s.IDGen.GenObjectID()
	for _, row := range table.Rows {
		err := s.Put(ctx, MakeRecord(instrument, row, runID))
		if err != nil {
			return runID, err
		}
	}

	s.log.Infof("Stored %v %v frame(s), run %v", len(table.Rows), instrument, runID)
	return runID, nil
}

// Get - the entry for one file
func (s *FrameStore) Get(ctx context.Context, instrument string, filename string) (FrameRecord, error) {
	result := FrameRecord{}
	err := s.Frames.FindOne(ctx, bson.M{"_id": recordID(instrument, filename)}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return result, errors.Wrapf(ErrNotFound, "%v", recordID(instrument, filename))
		}
		return result, err
	}
	return result, nil
}

// List - every entry of the instrument, in observation (MJD) order
func (s *FrameStore) List(ctx context.Context, instrument string) ([]FrameRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "mjd", Value: 1}, {Key: "filename", Value: 1}})
	cursor, err := s.Frames.Find(ctx, bson.M{"instrument": instrument}, opts)
	if err != nil {
		return nil, err
	}

	result := []FrameRecord{}
	err = cursor.All(ctx, &result)
	return result, err
}

// Table - the catalogued frames of an instrument as a frame table
func (s *FrameStore) Table(ctx context.Context, instrument string) (framematch.FrameTable, error) {
	recs, err := s.List(ctx, instrument)
	if err != nil {
		return framematch.FrameTable{}, err
	}

	table := framematch.FrameTable{Rows: make([]framematch.FrameRow, len(recs))}
	for c, rec := range recs {
		table.Rows[c] = rec.FrameRow
	}
	return table, nil
}

func (s *FrameStore) Delete(ctx context.Context, instrument string, filename string) error {
	result, err := s.Frames.DeleteOne(ctx, bson.M{"_id": recordID(instrument, filename)})
	if err != nil {
		return err
	}
	if result.DeletedCount <= 0 {
		return errors.Wrapf(ErrNotFound, "%v", recordID(instrument, filename))
	}
	return nil
}

func (s *FrameStore) IsNotFoundError(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
