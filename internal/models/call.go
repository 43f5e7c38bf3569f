package models

import (
	"strings"
	"time"
)

// DispositionAnswered is the only disposition with special handling in reports.
const DispositionAnswered = "ANSWERED"

// CallRecord is one row of the telephony backend's cdr table.
type CallRecord struct {
	ID            string    `json:"id" db:"uniqueid"`
	CallDate      time.Time `json:"call_date" db:"calldate"`
	Src           string    `json:"src" db:"src"`
	Dst           string    `json:"dst" db:"dst"`
	Duration      int       `json:"duration" db:"duration"`
	Disposition   string    `json:"disposition" db:"disposition"`
	RecordingFile string    `json:"recording_file" db:"recordingfile"`
}

func (c CallRecord) Answered() bool {
	return c.Disposition == DispositionAnswered
}

// HasRecording reports whether the call was answered and has a recording file name.
func (c CallRecord) HasRecording() bool {
	return c.Answered() && strings.TrimSpace(c.RecordingFile) != ""
}

// Recording returns the playback metadata for the call's recording file.
func (c CallRecord) Recording() Recording {
	return Recording{
		File:      strings.TrimSpace(c.RecordingFile),
		Performer: c.Src,
		Title:     c.CallDate.Format("2006-01-02 15:04:05"),
	}
}

// Recording describes an audio file attached to an answered call.
type Recording struct {
	File      string `json:"file"`
	Performer string `json:"performer"`
	Title     string `json:"title"`
}
