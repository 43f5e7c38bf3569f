package report

import "cdrbot/internal/models"

// Report is the result of one build: groups, ready-to-send chunks and the
// recordings that playback commands in the chunks refer to.
type Report struct {
	Groups     []Group
	Chunks     []string
	Recordings map[string]models.Recording
}

// Empty reports whether no conversation was found.
func (r *Report) Empty() bool {
	return len(r.Groups) == 0
}

// Build pairs rows into conversations and renders them.
func Build(rows []models.CallRecord, opts Options) (*Report, error) {
	groups, err := Pair(rows, opts)
	if err != nil {
		return nil, err
	}

	chunks, err := Render(rows, groups, opts)
	if err != nil {
		return nil, err
	}

	recordings := make(map[string]models.Recording)
	for _, g := range groups {
		for _, idx := range g.Calls {
			if rows[idx].HasRecording() {
				recordings[rows[idx].ID] = rows[idx].Recording()
			}
		}
	}

	return &Report{Groups: groups, Chunks: chunks, Recordings: recordings}, nil
}

// BuildList renders rows as a flat list without pairing.
func BuildList(rows []models.CallRecord, header string, opts Options) (*Report, error) {
	if err := validate(rows); err != nil {
		return nil, err
	}

	recordings := make(map[string]models.Recording)
	groups := make([]Group, 0, len(rows))
	for i, r := range rows {
		groups = append(groups, Group{Calls: []int{i}})
		if r.HasRecording() {
			recordings[r.ID] = r.Recording()
		}
	}

	return &Report{
		Groups:     groups,
		Chunks:     RenderList(rows, header, opts),
		Recordings: recordings,
	}, nil
}
