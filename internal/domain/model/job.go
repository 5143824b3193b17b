package model

import "time"

// Job is one match-conversion request flowing through the queue. Documents
// are held as raw bytes so jobs are self-contained and matches stay
// independent of each other.
type Job struct {
	ID               string
	CoordinateSystem string
	EventData        []byte
	MetaData         []byte
	RosterData       []byte
	SubmittedAt      time.Time
}

// ConversionStatus tracks a job through the service.
type ConversionStatus string

// ConversionStatus values.
const (
	ConversionPending ConversionStatus = "pending"
	ConversionDone    ConversionStatus = "done"
	ConversionFailed  ConversionStatus = "failed"
)

// Conversion is the stored outcome of one job.
type Conversion struct {
	JobID       string
	Status      ConversionStatus
	Dataset     *Dataset // nil unless Status is done
	Err         string   // empty unless Status is failed
	CompletedAt time.Time
}
