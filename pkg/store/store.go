// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/contactsaver/pkg/participant"
	"gitlab.com/tozd/go/errors"
)

// ErrHeaderMismatch is returned when the first row of the data file is not participant.Header().
var ErrHeaderMismatch = errors.Base("header mismatch")

// 💾 Appender persists a single record
type Appender interface {
	Append(ctx context.Context, rec participant.Record) error
}

// 📂 Loader reads every persisted record
type Loader interface {
	LoadAll(ctx context.Context) ([]participant.Record, error)
}

// 🗄️ Store is an append-only CSV record store.
//
// Nothing is cached; every LoadAll re-reads the file.
type Store struct {
	fs   afero.Fs
	path string
}

var (
	_ Appender = (*Store)(nil)
	_ Loader   = (*Store)(nil)
)

// 🏭 New creates a store for the CSV file at path on fs
func New(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes rec as a new row. The header is written first when the file
// is missing or empty. Existing rows are never rewritten.
func (s *Store) Append(ctx context.Context, rec participant.Record) (err error) {
	logger := zerolog.Ctx(ctx).With().Str("path", s.path).Logger()

	defer func() {
		if err != nil {
			logger.Warn().Err(err).Str("name", rec.Name).Msg("saving participant")
		}
	}()

	if err := rec.Validate(); err != nil {
		return errors.Errorf("validating record: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("creating data directory: %w", err)
		}
	}

	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Errorf("opening data file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing data file: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return errors.Errorf("checking data file: %w", err)
	}

	w := csv.NewWriter(f)

	if info.Size() == 0 {
		logger.Debug().Msg("writing header")
		if err := w.Write(participant.Header()); err != nil {
			return errors.Errorf("writing header: %w", err)
		}
	}

	if err := w.Write(rec.Row()); err != nil {
		return errors.Errorf("writing record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Errorf("flushing data file: %w", err)
	}

	logger.Debug().Str("name", rec.Name).Msg("participant saved")
	return nil
}

// LoadAll returns every record in file order. A missing file is not an error.
// On a malformed row the records read so far are returned along with the error.
func (s *Store) LoadAll(ctx context.Context) (recs []participant.Record, err error) {
	logger := zerolog.Ctx(ctx).With().Str("path", s.path).Logger()

	defer func() {
		if err != nil {
			logger.Warn().Err(err).Int("loaded", len(recs)).Msg("loading participants")
		}
	}()

	recs = []participant.Record{}

	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Msg("data file does not exist")
			return recs, nil
		}
		return recs, errors.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return recs, nil
	}
	if err != nil {
		return recs, errors.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, participant.Header()) {
		return recs, errors.Errorf("%w: got %v", ErrHeaderMismatch, header)
	}

	for n := 1; ; n++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return recs, errors.Errorf("reading row %d: %w", n, err)
		}

		rec, err := participant.FromRow(row)
		if err != nil {
			return recs, errors.Errorf("parsing row %d: %w", n, err)
		}
		recs = append(recs, rec)
	}

	logger.Debug().Int("count", len(recs)).Msg("participants loaded")
	return recs, nil
}
