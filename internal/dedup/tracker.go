// Package dedup remembers which question texts a session has already been
// given, so neither the buffer nor the generator prompt ever repeats them.
package dedup

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/abhisek/hpquiz/internal/quiz"
)

// DefaultRingSize bounds the avoid list handed to the generator.
const DefaultRingSize = 200

var folder = cases.Fold()

// Normalize trims surrounding whitespace and case-folds text.
func Normalize(text string) string {
	return folder.String(strings.TrimSpace(text))
}

type seenEntry struct {
	text string
	seq  uint64
}

// Tracker keeps two views of a session's question texts: an unbounded
// seen set used for correctness and a bounded ring of the most recently
// generated texts used to keep prompts compact.
//
// Tracker is not safe for concurrent use; the owning session serializes access.
type Tracker struct {
	seen map[string]seenEntry
	seq  uint64

	ring  []string // normalized keys, circular
	head  int      // index of the oldest entry
	count int
}

// NewTracker creates a tracker whose ring holds up to ringSize texts.
func NewTracker(ringSize int) *Tracker {
	if ringSize < 1 {
		ringSize = DefaultRingSize
	}
	return &Tracker{
		seen: make(map[string]seenEntry),
		ring: make([]string, ringSize),
	}
}

// FilterNew returns the candidates whose text has not been seen before,
// dropping in-batch duplicates (first occurrence wins) and blank texts.
// Accepted texts are recorded as seen and pushed into the ring.
func (t *Tracker) FilterNew(candidates []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, 0, len(candidates))
	for _, q := range candidates {
		key := Normalize(q.Text)
		if key == "" {
			continue
		}
		if _, ok := t.seen[key]; ok {
			continue
		}
		t.record(key, q.Text)
		t.push(key)
		out = append(out, q)
	}
	return out
}

// MarkServed records text as seen and refreshes its recency.
func (t *Tracker) MarkServed(text string) {
	key := Normalize(text)
	if key == "" {
		return
	}
	t.record(key, text)
}

// Seen reports whether text has been recorded.
func (t *Tracker) Seen(text string) bool {
	_, ok := t.seen[Normalize(text)]
	return ok
}

// Len returns the number of distinct texts ever recorded.
func (t *Tracker) Len() int { return len(t.seen) }

// AvoidList returns the ring contents, oldest first. When the ring is not
// yet full it is padded with the most recently recorded seen texts that
// are not already in the ring, up to the ring capacity.
func (t *Tracker) AvoidList() []string {
	capacity := len(t.ring)
	out := make([]string, 0, capacity)
	inRing := make(map[string]struct{}, t.count)
	for i := 0; i < t.count; i++ {
		key := t.ring[(t.head+i)%capacity]
		inRing[key] = struct{}{}
		out = append(out, t.seen[key].text)
	}
	if len(out) >= capacity {
		return out
	}

	rest := make([]seenEntry, 0, len(t.seen))
	for key, e := range t.seen {
		if _, ok := inRing[key]; ok {
			continue
		}
		rest = append(rest, e)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].seq > rest[j].seq })
	for _, e := range rest {
		if len(out) >= capacity {
			break
		}
		out = append(out, e.text)
	}
	return out
}

func (t *Tracker) record(key, text string) {
	t.seq++
	t.seen[key] = seenEntry{text: strings.TrimSpace(text), seq: t.seq}
}

func (t *Tracker) push(key string) {
	capacity := len(t.ring)
	if t.count < capacity {
		t.ring[(t.head+t.count)%capacity] = key
		t.count++
		return
	}
	t.ring[t.head] = key
	t.head = (t.head + 1) % capacity
}
