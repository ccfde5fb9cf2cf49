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

package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		check   func(string) error
		input   string
		wantErr error
	}{
		{name: "name_ok", check: ValidateName, input: "Ada"},
		{name: "name_empty", check: ValidateName, input: "", wantErr: ErrEmptyName},
		{name: "name_blank", check: ValidateName, input: "   ", wantErr: ErrEmptyName},
		{name: "age_ok", check: ValidateAge, input: "30"},
		{name: "age_zero", check: ValidateAge, input: "0"},
		{name: "age_letters", check: ValidateAge, input: "abc", wantErr: ErrAgeNotDigit},
		{name: "age_empty", check: ValidateAge, input: "", wantErr: ErrAgeNotDigit},
		{name: "age_negative", check: ValidateAge, input: "-3", wantErr: ErrAgeNotDigit},
		{name: "age_overflow", check: ValidateAge, input: "99999999999999999999999", wantErr: ErrAgeNotDigit},
		{name: "phone_ok", check: ValidatePhone, input: "08012345678"},
		{name: "phone_long", check: ValidatePhone, input: "2348012345678"},
		{name: "phone_short", check: ValidatePhone, input: "123", wantErr: ErrBadPhone},
		{name: "phone_letters", check: ValidatePhone, input: "0801234567a", wantErr: ErrBadPhone},
		{name: "track_ok", check: ValidateTrack, input: "Backend"},
		{name: "track_blank", check: ValidateTrack, input: "\t", wantErr: ErrEmptyTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidRecord, "field errors should match ErrInvalidRecord")
		})
	}
}

func TestFieldErrorMessages(t *testing.T) {
	assert.Equal(t, "Name cannot be empty!", ErrEmptyName.Error())
	assert.Equal(t, "Age must be a number!", ErrAgeNotDigit.Error())
	assert.Equal(t, "Phone must be digits and at least 11 characters!", ErrBadPhone.Error())
	assert.Equal(t, "Track cannot be empty!", ErrEmptyTrack.Error())
}

func TestRecordValidate(t *testing.T) {
	ada := Record{Name: "Ada", Age: 30, Phone: "08012345678", Track: "Backend"}
	require.NoError(t, ada.Validate())

	bad := ada
	bad.Age = -1
	assert.ErrorIs(t, bad.Validate(), ErrAgeNotDigit)

	bad = ada
	bad.Phone = "0801"
	assert.ErrorIs(t, bad.Validate(), ErrBadPhone)

	bad = ada
	bad.Track = ""
	assert.ErrorIs(t, bad.Validate(), ErrEmptyTrack)
}

func TestRowRoundTrip(t *testing.T) {
	ada := Record{Name: "Ada", Age: 30, Phone: "08012345678", Track: "Backend"}
	assert.Equal(t, []string{"Ada", "30", "08012345678", "Backend"}, ada.Row())

	got, err := FromRow(ada.Row())
	require.NoError(t, err)
	assert.Equal(t, ada, got)
	assert.Equal(t, "08012345678", got.Phone, "leading zero should be kept")
}

func TestFromRowErrors(t *testing.T) {
	_, err := FromRow([]string{"Ada", "30"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 fields")

	_, err = FromRow([]string{"Ada", "thirty", "08012345678", "Backend"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAgeNotDigit))
	assert.Contains(t, err.Error(), `parsing age "thirty"`)
}

func TestHeaderAndSummary(t *testing.T) {
	assert.Equal(t, []string{"Name", "Age", "Phone", "Track"}, Header())

	ada := Record{Name: "Ada", Age: 30, Phone: "08012345678", Track: "Backend"}
	assert.Equal(t, "Ada (30 yrs, 08012345678, Track: Backend)", ada.Summary())
}
