// Package ident generates the human-readable business identifiers assigned
// to patients and medical records at creation time. The identifiers are
// timestamp-derived with a random suffix; they are not re-checked for
// collisions (the unique index surfaces the negligible collision case) and
// are never regenerated.
package ident

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// MedicalNoPrefix prefixes patient medical numbers.
	MedicalNoPrefix = "P"
	// RecordNoPrefix prefixes medical record numbers.
	RecordNoPrefix = "MR"
)

// MedicalNo returns a new patient medical number,
// e.g. P202601021504050042.
func MedicalNo() string {
	return generate(MedicalNoPrefix, time.Now())
}

// RecordNo returns a new medical record number,
// e.g. MR202601021504050042.
func RecordNo() string {
	return generate(RecordNoPrefix, time.Now())
}

// generate produces prefix + yyyyMMddHHmmss + zero-padded 4-digit random
// suffix.
func generate(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("20060102150405"), rand.Intn(10000))
}
