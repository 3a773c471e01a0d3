package logfilter

import "fmt"

// Status is the state of a Matcher after feeding it a byte.
type Status uint8

const (
	// More input is needed to decide.
	KeepGoing Status = iota
	// No state is left that could lead to a match.
	MatchFailed
	// A trailing MetaRun was reached, the rest of the line does not matter.
	SuccessSkipTheRest
)

func (s Status) String() string {
	switch s {
	case KeepGoing:
		return "keep-going"
	case MatchFailed:
		return "match-failed"
	case SuccessSkipTheRest:
		return "success-skip-the-rest"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Matcher simulates a Filter on one line at a time. It keeps all states that
// are reachable with the input seen so far in two buffers that swap roles on
// each Step. Buffers are allocated once and reused after Reset. A Matcher
// must not be used concurrently.
type Matcher struct {
	f         *Filter
	states    [2][]int32
	cur       int
	status    Status
	tentative bool
}

func (f *Filter) NewMatcher() *Matcher {
	m := &Matcher{f: f}
	m.states[0] = make([]int32, 0, f.bound)
	m.states[1] = make([]int32, 0, f.bound)
	m.Reset()
	return m
}

func (m *Matcher) Filter() *Filter { return m.f }

// Reset prepares m for the next line.
func (m *Matcher) Reset() {
	m.cur = 0
	m.states[0] = append(m.states[0][:0], 0)
	m.states[1] = m.states[1][:0]
	m.status = KeepGoing
	m.tentative = false
}

func (m *Matcher) Status() Status { return m.status }

// Active returns the number of currently active states.
func (m *Matcher) Active() int { return len(m.states[m.cur]) }

// Step feeds the next byte of the current line. Once the status is not
// KeepGoing, Step does nothing and returns the status.
func (m *Matcher) Step(b byte) Status {
	if m.status != KeepGoing {
		return m.status
	}
	cur := m.states[m.cur]
	if len(cur) == 0 {
		m.status = MatchFailed
		return m.status
	}
	m.tentative = false
	next := m.states[1-m.cur]
	nodes := m.f.nodes
	for _, si := range cur {
		n := &nodes[si]
		if n.persist {
			if n.kind == nodeRest {
				m.status = SuccessSkipTheRest
				return m.status
			}
			// Adjacent persistent nodes: the predecessor already added this
			// one as its successor.
			if len(next) == 0 || next[len(next)-1] != si {
				next = append(next, si)
			}
		}
		if n.accepts(b) {
			if s := si + 1; int(s) < len(nodes) {
				next = append(next, s)
			} else {
				m.tentative = true
			}
		}
	}
	m.states[m.cur] = cur[:0]
	m.states[1-m.cur] = next
	m.cur = 1 - m.cur
	return m.status
}

// Matched reports whether the line fed since the last Reset matches, given
// that the line ended after the last Step.
func (m *Matcher) Matched() bool {
	switch m.status {
	case SuccessSkipTheRest:
		return true
	case KeepGoing:
		if m.tentative {
			return true
		}
	}
	// A trailing MetaRun that was queued but not yet reached because the
	// line ended first.
	cur := m.states[m.cur]
	if len(cur) == 0 {
		return false
	}
	return m.f.nodes[cur[len(cur)-1]].kind == nodeRest
}
