package pipeline

import "fmt"

// SpeakerMap assigns canonical labels to external speaker tags.
// Tags are opaque keys; the mapping depends only on first-appearance
// order in the time-ordered segment sequence.
type SpeakerMap struct {
	labels map[string]string
	order  []string
}

// Canonicalize scans sanitized segments in time order and assigns each
// unseen speaker tag the next canonical label (speakerA, speakerB, ...).
// Dropped segments produce no transcript entries, so their tags do not
// consume labels. More tags than the configured speaker count is fine;
// the count is advisory, not a cap.
func Canonicalize(segments []SanitizedSegment) *SpeakerMap {
	m := &SpeakerMap{labels: make(map[string]string)}
	for _, seg := range segments {
		if !seg.Live() {
			continue
		}
		if _, seen := m.labels[seg.Speaker]; seen {
			continue
		}
		m.labels[seg.Speaker] = canonicalLabel(len(m.order))
		m.order = append(m.order, seg.Speaker)
	}
	return m
}

// Label returns the canonical label for an external tag. Unknown tags map
// to the tag itself so degraded inputs still render something readable.
func (m *SpeakerMap) Label(tag string) string {
	if label, ok := m.labels[tag]; ok {
		return label
	}
	return tag
}

// Tags returns external tags in assignment order.
func (m *SpeakerMap) Tags() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct speakers seen.
func (m *SpeakerMap) Len() int {
	return len(m.order)
}

// canonicalLabel yields speakerA..speakerZ, then speakerA2, speakerB2
// and so on when a recording somehow produces more than 26 speakers.
func canonicalLabel(n int) string {
	letter := rune('A' + n%26)
	round := n / 26
	if round == 0 {
		return fmt.Sprintf("speaker%c", letter)
	}
	return fmt.Sprintf("speaker%c%d", letter, round+1)
}
