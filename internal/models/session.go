package models

import "time"

// Session is the per-user chat state kept by the session store.
type Session struct {
	UserID        int64                `json:"user_id"`
	ChatID        int64                `json:"chat_id"`
	Scene         string               `json:"scene"`
	Authorized    bool                 `json:"authorized"`
	Greeted       bool                 `json:"greeted"`
	ReportDate    string               `json:"report_date,omitempty"`
	Recordings    map[string]Recording `json:"recordings,omitempty"`
	CalendarMonth string               `json:"calendar_month,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewSession returns an unauthorized session positioned on the start scene.
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Scene:     SceneStart,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a copy that does not share the recordings map.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Recordings != nil {
		cp.Recordings = make(map[string]Recording, len(s.Recordings))
		for k, v := range s.Recordings {
			cp.Recordings[k] = v
		}
	}
	return &cp
}

// ResetReport drops the state that belongs to the previously shown report.
func (s *Session) ResetReport() {
	s.ReportDate = ""
	s.Recordings = nil
}

// Recording looks up a recording remembered for a call id.
func (s *Session) Recording(callID string) (Recording, bool) {
	if s == nil || s.Recordings == nil {
		return Recording{}, false
	}
	rec, ok := s.Recordings[callID]
	return rec, ok
}
