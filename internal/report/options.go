package report

import "cdrbot/internal/models"

// NumberSet is a set of switchboard numbers.
type NumberSet map[string]struct{}

func NewNumberSet(numbers ...string) NumberSet {
	set := make(NumberSet, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set
}

func (s NumberSet) Contains(number string) bool {
	_, ok := s[number]
	return ok
}

// Options configures pairing and rendering.
type Options struct {
	// Self holds the switchboard's own numbers; they never start a forward scan.
	Self NumberSet
	// ShortNumberLen is the longest number treated as an internal extension.
	ShortNumberLen int
	// ChunkLines bounds the number of lines in one rendered message.
	ChunkLines int
	// EmptyText is rendered as the only chunk when there is nothing to report.
	EmptyText string
}

func (o Options) withDefaults() Options {
	if o.ShortNumberLen <= 0 {
		o.ShortNumberLen = models.DefaultShortNumberLen
	}
	if o.ChunkLines <= 0 {
		o.ChunkLines = models.DefaultChunkLines
	}
	return o
}

func (o Options) internal(number string) bool {
	return len(number) <= o.ShortNumberLen
}
