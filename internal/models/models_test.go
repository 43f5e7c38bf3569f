package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallRecord_Helpers(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 5, 7, 0, time.Local)

	t.Run("AnsweredWithFile", func(t *testing.T) {
		rec := CallRecord{ID: "1.1", CallDate: at, Src: "5551234", Dst: "100", Disposition: DispositionAnswered, RecordingFile: " a.wav "}
		assert.True(t, rec.Answered())
		assert.True(t, rec.HasRecording())
		assert.Equal(t, Recording{File: "a.wav", Performer: "5551234", Title: "2026-10-16 09:05:07"}, rec.Recording())
	})

	t.Run("NotAnsweredIgnoresFile", func(t *testing.T) {
		rec := CallRecord{Disposition: "NO ANSWER", RecordingFile: "a.wav"}
		assert.False(t, rec.Answered())
		assert.False(t, rec.HasRecording())
	})

	t.Run("BlankFile", func(t *testing.T) {
		rec := CallRecord{Disposition: DispositionAnswered, RecordingFile: "   "}
		assert.False(t, rec.HasRecording())
	})
}

func TestSession_Helpers(t *testing.T) {
	s := NewSession(1, 2)
	assert.Equal(t, SceneStart, s.Scene)
	assert.False(t, s.Authorized)

	_, ok := s.Recording("x")
	assert.False(t, ok)

	s.Recordings = map[string]Recording{"1.1": {File: "a.wav"}}
	s.ReportDate = "2026-10-16"

	cp := s.Clone()
	cp.Recordings["2.2"] = Recording{File: "b.wav"}
	assert.Len(t, s.Recordings, 1)

	rec, ok := s.Recording("1.1")
	assert.True(t, ok)
	assert.Equal(t, "a.wav", rec.File)

	s.ResetReport()
	assert.Empty(t, s.ReportDate)
	assert.Nil(t, s.Recordings)

	var nilSession *Session
	assert.Nil(t, nilSession.Clone())
}
