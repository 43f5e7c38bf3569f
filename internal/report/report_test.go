package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cdrbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 16, 0, 0, 0, 0, time.Local)

func call(id string, hhmm string, src, dst, disp string, dur int, file string) models.CallRecord {
	t, err := time.ParseInLocation("15:04", hhmm, time.Local)
	if err != nil {
		panic(err)
	}
	return models.CallRecord{
		ID:            id,
		CallDate:      day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute),
		Src:           src,
		Dst:           dst,
		Duration:      dur,
		Disposition:   disp,
		RecordingFile: file,
	}
}

func calls(groups []Group) [][]int {
	out := make([][]int, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Calls)
	}
	return out
}

func TestPair(t *testing.T) {
	self := NewNumberSet("100", "4950000000")

	tests := []struct {
		name string
		rows []models.CallRecord
		want [][]int
	}{
		{
			name: "short source never scans forward",
			rows: []models.CallRecord{
				call("1.1", "09:00", "100", "5551234", "NO ANSWER", 0, ""),
				call("1.2", "09:05", "5551234", "100", "ANSWERED", 30, "a.wav"),
			},
			want: [][]int{{0}, {1}},
		},
		{
			name: "external caller collects follow-ups",
			rows: []models.CallRecord{
				call("1.1", "09:00", "5551234", "100", "NO ANSWER", 0, ""),
				call("1.2", "09:01", "5559999", "101", "ANSWERED", 10, ""),
				call("1.3", "09:02", "101", "5551234", "ANSWERED", 40, "b.wav"),
				call("1.4", "09:03", "5551234", "102", "BUSY", 0, ""),
			},
			want: [][]int{{0, 2, 3}, {1}},
		},
		{
			name: "dst matches do not become pairing keys",
			rows: []models.CallRecord{
				call("1.1", "09:00", "5551111", "100", "NO ANSWER", 0, ""),
				call("1.2", "09:01", "100", "5551111", "ANSWERED", 12, ""),
				call("1.3", "09:02", "5552222", "5551111", "ANSWERED", 5, ""),
				call("1.4", "09:03", "5552222", "100", "NO ANSWER", 0, ""),
			},
			want: [][]int{{0, 1, 2}, {3}},
		},
		{
			name: "self numbers do not scan forward",
			rows: []models.CallRecord{
				call("1.1", "09:00", "4950000000", "5551111", "ANSWERED", 12, ""),
				call("1.2", "09:01", "4950000000", "5552222", "ANSWERED", 12, ""),
			},
			want: [][]int{{0}, {1}},
		},
		{
			name: "internal calls are skipped",
			rows: []models.CallRecord{
				call("1.1", "09:00", "101", "102", "ANSWERED", 3, ""),
				call("1.2", "09:01", "5551111", "101", "ANSWERED", 12, ""),
				call("1.3", "09:02", "102", "101", "NO ANSWER", 0, ""),
			},
			want: [][]int{{1}},
		},
		{
			name: "first anchor wins",
			rows: []models.CallRecord{
				call("1.1", "09:00", "5551111", "5552222", "ANSWERED", 12, ""),
				call("1.2", "09:01", "5552222", "5551111", "ANSWERED", 12, ""),
				call("1.3", "09:02", "5552222", "100", "ANSWERED", 12, ""),
			},
			want: [][]int{{0, 1}, {2}},
		},
		{
			name: "empty input",
			rows: nil,
			want: [][]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Pair(tt.rows, Options{Self: self})
			require.NoError(t, err)
			assert.Equal(t, tt.want, calls(groups))
		})
	}
}

func TestPair_Properties(t *testing.T) {
	rows := []models.CallRecord{
		call("1.1", "08:00", "101", "102", "ANSWERED", 3, ""),
		call("1.2", "08:10", "5551111", "100", "NO ANSWER", 0, ""),
		call("1.3", "08:20", "5552222", "100", "ANSWERED", 30, "x.wav"),
		call("1.4", "08:30", "100", "5551111", "ANSWERED", 50, "y.wav"),
		call("1.5", "08:40", "5553333", "5552222", "BUSY", 0, ""),
		call("1.6", "08:50", "103", "104", "FAILED", 0, ""),
		call("1.7", "09:00", "5551111", "101", "ANSWERED", 5, ""),
		call("1.8", "09:10", "100", "5554444", "NO ANSWER", 0, ""),
	}
	opts := Options{Self: NewNumberSet("100")}

	first, err := Pair(rows, opts)
	require.NoError(t, err)
	second, err := Pair(rows, opts)
	require.NoError(t, err)

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, first, second)
	})

	t.Run("Coverage", func(t *testing.T) {
		seen := make(map[int]int)
		for _, g := range first {
			for _, idx := range g.Calls {
				seen[idx]++
			}
		}
		for i, r := range rows {
			internal := len(r.Src) <= 3 && len(r.Dst) <= 3
			if internal {
				assert.Zero(t, seen[i], "internal row %d must be skipped", i)
				continue
			}
			assert.Equal(t, 1, seen[i], "row %d must appear exactly once", i)
		}
	})

	t.Run("AnchorOrdering", func(t *testing.T) {
		for k := 0; k+1 < len(first); k++ {
			assert.Less(t, first[k].Anchor(), first[k+1].Anchor())
		}
	})
}

func TestPair_InvalidRecord(t *testing.T) {
	rows := []models.CallRecord{
		call("1.1", "09:00", "5551111", "100", "NO ANSWER", 0, ""),
		call("1.2", "09:01", "", "100", "NO ANSWER", 0, ""),
	}

	_, err := Pair(rows, Options{})
	require.Error(t, err)

	var invalid *InvalidRecordError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Index)
	assert.Equal(t, "1.2", invalid.ID)
	assert.Equal(t, "src", invalid.Field)
	assert.Contains(t, err.Error(), "missing src")

	rows[1] = models.CallRecord{Src: "1", Dst: "2"}
	_, err = Pair(rows, Options{})
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "id", invalid.Field)
}

func TestRender(t *testing.T) {
	rows := []models.CallRecord{
		call("1623100000.123", "09:00", "5551234", "100", "NO ANSWER", 0, ""),
		call("1623100000.124", "09:05", "100", "5551234", "ANSWERED", 30, "a.wav"),
		call("1623100000.125", "09:06", "5551234", "101", "ANSWERED", 12, ""),
		call("1623100000.126", "09:07", "100", "5550000", "BUSY", 0, "ignored.wav"),
	}

	groups, err := Pair(rows, Options{Self: NewNumberSet("100")})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	chunks, err := Render(rows, groups, Options{})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, strings.Join([]string{
		"09:00: <b>5551234</b> → 100, no answer",
		"09:05: 100 → <b>5551234</b>, 30 сек. /listen_1623100000_124",
		"09:06: <b>5551234</b> → 101, 12 сек.",
	}, "\n"), chunks[0])
	assert.Equal(t, "09:07: <b>100</b> → 5550000, busy", chunks[1])
}

func TestRender_HighlightOnEveryLine(t *testing.T) {
	rows := []models.CallRecord{
		call("1.1", "10:00", "5551234", "100", "NO ANSWER", 0, ""),
		call("1.2", "10:01", "101", "5551234", "ANSWERED", 5, ""),
		call("1.3", "10:02", "5551234", "102", "FAILED", 0, ""),
	}
	groups, err := Pair(rows, Options{})
	require.NoError(t, err)

	chunks, err := Render(rows, groups, Options{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	for _, line := range strings.Split(chunks[0], "\n") {
		assert.Contains(t, line, "<b>5551234</b>")
		assert.NotContains(t, line, "<b>10")
	}
}

func TestRender_Chunking(t *testing.T) {
	var rows []models.CallRecord
	start := day.Add(8 * time.Hour)
	for i := 0; i < 65; i++ {
		rows = append(rows, models.CallRecord{
			ID:          fmt.Sprintf("1700000000.%d", i),
			CallDate:    start.Add(time.Duration(i) * time.Minute),
			Src:         "5551234",
			Dst:         "100",
			Disposition: "NO ANSWER",
		})
	}

	groups, err := Pair(rows, Options{})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	chunks, err := Render(rows, groups, Options{})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	var all []string
	for _, c := range chunks {
		lines := strings.Split(c, "\n")
		assert.LessOrEqual(t, len(lines), models.DefaultChunkLines)
		all = append(all, lines...)
	}
	assert.Len(t, all, 65)
	assert.Equal(t, "08:00: <b>5551234</b> → 100, no answer", all[0])
	assert.Equal(t, "09:04: <b>5551234</b> → 100, no answer", all[64])

	small, err := Render(rows, groups, Options{ChunkLines: 10})
	require.NoError(t, err)
	assert.Len(t, small, 7)
}

func TestRender_Empty(t *testing.T) {
	chunks, err := Render(nil, nil, Options{EmptyText: "Сегодня еще не было звонков"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Сегодня еще не было звонков"}, chunks)
}

func TestRender_EscapesMarkup(t *testing.T) {
	rows := []models.CallRecord{call("1.1", "11:00", "<anon>", "100", "NO ANSWER", 0, "")}
	groups, err := Pair(rows, Options{})
	require.NoError(t, err)

	chunks, err := Render(rows, groups, Options{})
	require.NoError(t, err)
	assert.Equal(t, "11:00: <b>&lt;anon&gt;</b> → 100, no answer", chunks[0])
}

func TestRender_BadGroup(t *testing.T) {
	rows := []models.CallRecord{call("1.1", "11:00", "5551234", "100", "NO ANSWER", 0, "")}
	_, err := Render(rows, []Group{{Calls: []int{3}}}, Options{})
	assert.Error(t, err)
}

func TestRenderList(t *testing.T) {
	rows := []models.CallRecord{
		call("1.1", "09:00", "5551234", "100", "NO ANSWER", 0, ""),
		call("1.2", "09:30", "5550000", "101", "BUSY", 0, ""),
	}

	chunks := RenderList(rows, "Пропущенные сегодня:", Options{})
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Join([]string{
		"Пропущенные сегодня:",
		"",
		"<pre>  1: 09:00, 5551234 → 100, no answer</pre>",
		"<pre>  2: 09:30, 5550000 → 101, busy</pre>",
	}, "\n"), chunks[0])

	t.Run("Chunked", func(t *testing.T) {
		var many []models.CallRecord
		for i := 0; i < 40; i++ {
			many = append(many, rows[0])
		}
		chunks := RenderList(many, "header", Options{})
		require.Len(t, chunks, 2)
		assert.Len(t, strings.Split(chunks[0], "\n"), 30)
		assert.Len(t, strings.Split(chunks[1], "\n"), 12)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, []string{"нет"}, RenderList(nil, "header", Options{EmptyText: "нет"}))
	})
}

func TestBuild(t *testing.T) {
	rows := []models.CallRecord{
		call("1623100000.123", "09:00", "100", "5551234", "NO ANSWER", 0, ""),
		call("1623100000.124", "09:05", "5551234", "100", "ANSWERED", 30, "a.wav"),
	}

	rep, err := Build(rows, Options{Self: NewNumberSet("100")})
	require.NoError(t, err)
	assert.False(t, rep.Empty())
	assert.Len(t, rep.Groups, 2)
	assert.Len(t, rep.Chunks, 2)
	assert.Equal(t, map[string]models.Recording{
		"1623100000.124": {File: "a.wav", Performer: "5551234", Title: "2026-10-16 09:05:00"},
	}, rep.Recordings)

	empty, err := Build(nil, Options{EmptyText: "пусто"})
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.Equal(t, []string{"пусто"}, empty.Chunks)

	list, err := BuildList(rows, "header", Options{})
	require.NoError(t, err)
	assert.Len(t, list.Groups, 2)
	assert.Contains(t, list.Recordings, "1623100000.124")

	_, err = BuildList([]models.CallRecord{{ID: "x"}}, "header", Options{})
	assert.Error(t, err)
}

func TestListenCommand(t *testing.T) {
	cmd := ListenCommand("1623100000.123")
	assert.Equal(t, "/listen_1623100000_123", cmd)

	id, ok := ParseListenCommand(cmd)
	require.True(t, ok)
	assert.Equal(t, "1623100000.123", id)

	tests := []struct {
		in string
		id string
		ok bool
	}{
		{"/listen_1_2_3", "1.2_3", true},
		{"  /listen_42  ", "42", true},
		{"/listen_", "", false},
		{"/listen_1 2", "", false},
		{"/today", "", false},
	}
	for _, tt := range tests {
		id, ok := ParseListenCommand(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.id, id, tt.in)
	}
}
