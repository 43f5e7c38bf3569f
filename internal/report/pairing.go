package report

import (
	"cdrbot/internal/models"
)

// Group is one conversation: indexes into the source rows, anchor first.
type Group struct {
	Calls []int
}

// Anchor returns the index of the record that opened the group.
func (g Group) Anchor() int {
	return g.Calls[0]
}

// Pair splits time-ordered rows into conversation groups in a single pass.
//
// A row whose src and dst are both internal extensions is skipped. Every other
// unprocessed row anchors a new group. When the anchor's src is an external
// number that is not one of ours, every later unprocessed row that has the
// same src, or dials it as dst, joins the group. Only the anchor's src is used
// as the key: rows joined through dst never pull in further rows.
func Pair(rows []models.CallRecord, opts Options) ([]Group, error) {
	opts = opts.withDefaults()

	if err := validate(rows); err != nil {
		return nil, err
	}

	processed := make([]bool, len(rows))
	var groups []Group

	for i := range rows {
		if processed[i] || (opts.internal(rows[i].Src) && opts.internal(rows[i].Dst)) {
			continue
		}

		group := Group{Calls: []int{i}}
		processed[i] = true

		key := rows[i].Src
		if !opts.internal(key) && !opts.Self.Contains(key) {
			for j := i + 1; j < len(rows); j++ {
				if processed[j] {
					continue
				}
				if rows[j].Src == key || rows[j].Dst == key {
					group.Calls = append(group.Calls, j)
					processed[j] = true
				}
			}
		}

		groups = append(groups, group)
	}

	return groups, nil
}

func validate(rows []models.CallRecord) error {
	for i, r := range rows {
		switch {
		case r.ID == "":
			return &InvalidRecordError{Index: i, Field: "id"}
		case r.CallDate.IsZero():
			return &InvalidRecordError{Index: i, ID: r.ID, Field: "calldate"}
		case r.Src == "":
			return &InvalidRecordError{Index: i, ID: r.ID, Field: "src"}
		case r.Dst == "":
			return &InvalidRecordError{Index: i, ID: r.ID, Field: "dst"}
		case r.Disposition == "":
			return &InvalidRecordError{Index: i, ID: r.ID, Field: "disposition"}
		}
	}
	return nil
}
