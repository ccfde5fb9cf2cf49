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
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// MinPhoneLength is the shortest phone number accepted.
const MinPhoneLength = 11

// 📇 Record is a single participant entry.
//
// Field order is fixed and doubles as the column order of the data file.
type Record struct {
	Name  string
	Age   int
	Phone string // kept as text so leading zeros survive
	Track string
}

// Header returns the column names in persisted order.
func Header() []string {
	return []string{"Name", "Age", "Phone", "Track"}
}

// ErrInvalidRecord matches every field validation error.
var ErrInvalidRecord = errors.Base("invalid record")

// 🚫 FieldError is a validation failure for one field. The message is shown to users as is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidRecord) match any field error.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidRecord
}

var (
	ErrEmptyName   = &FieldError{Field: "Name", Message: "Name cannot be empty!"}
	ErrAgeNotDigit = &FieldError{Field: "Age", Message: "Age must be a number!"}
	ErrBadPhone    = &FieldError{Field: "Phone", Message: fmt.Sprintf("Phone must be digits and at least %d characters!", MinPhoneLength)}
	ErrEmptyTrack  = &FieldError{Field: "Track", Message: "Track cannot be empty!"}
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateName rejects names that are blank after trimming.
func ValidateName(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrEmptyName
	}
	return nil
}

// ParseAge accepts only ASCII digit strings that fit in an int.
func ParseAge(v string) (int, error) {
	if !isDigits(v) {
		return 0, ErrAgeNotDigit
	}
	age, err := strconv.Atoi(v)
	if err != nil {
		return 0, ErrAgeNotDigit
	}
	return age, nil
}

// ValidateAge is ParseAge without the value.
func ValidateAge(v string) error {
	_, err := ParseAge(v)
	return err
}

// ValidatePhone requires at least MinPhoneLength ASCII digits.
func ValidatePhone(v string) error {
	if !isDigits(v) || len(v) < MinPhoneLength {
		return ErrBadPhone
	}
	return nil
}

// ValidateTrack rejects tracks that are blank after trimming.
func ValidateTrack(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrEmptyTrack
	}
	return nil
}

// 🔍 Validate checks every field of the record
func (r Record) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if r.Age < 0 {
		return ErrAgeNotDigit
	}
	if err := ValidatePhone(r.Phone); err != nil {
		return err
	}
	return ValidateTrack(r.Track)
}

// Row renders the record in column order.
func (r Record) Row() []string {
	return []string{r.Name, strconv.Itoa(r.Age), r.Phone, r.Track}
}

// FromRow parses a persisted row. Age is restored to an integer; the other
// fields are taken verbatim.
func FromRow(row []string) (Record, error) {
	if len(row) != len(Header()) {
		return Record{}, errors.Errorf("expected %d fields, got %d", len(Header()), len(row))
	}

	age, err := ParseAge(row[1])
	if err != nil {
		return Record{}, errors.Errorf("parsing age %q: %w", row[1], err)
	}

	return Record{
		Name:  row[0],
		Age:   age,
		Phone: row[2],
		Track: row[3],
	}, nil
}

// 📝 Summary renders the one-line description used in listings
func (r Record) Summary() string {
	return fmt.Sprintf("%s (%d yrs, %s, Track: %s)", r.Name, r.Age, r.Phone, r.Track)
}
