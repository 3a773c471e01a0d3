package logfilter

// Filter meta characters
const (
	// Matches exactly one arbitrary byte.
	MetaAny = '?'
	// Matches any run of bytes, even an empty one.
	MetaRun = '*'
)

type nodeKind byte

const (
	nodeLit nodeKind = iota
	nodeAny
	// nodeRest is the sentinel appended for a trailing '*'. Reaching it means
	// the rest of the line does not matter.
	nodeRest
)

// node is one compiled filter token. The successor of nodes[i] is
// nodes[i+1]; i+1 == len(nodes) means the filter is fully consumed.
type node struct {
	kind    nodeKind
	sym     byte
	persist bool
}

func (n *node) accepts(b byte) bool {
	switch n.kind {
	case nodeLit:
		return n.sym == b
	case nodeAny:
		return true
	}
	return false
}

// Filter is a compiled glob-style line filter. A Filter is immutable and can
// be shared between any number of Matchers, also concurrently.
type Filter struct {
	src   string
	nodes []node
	bound int
}

// Compile parses filter into a Filter. Besides literal bytes only MetaAny and
// MetaRun are recognized, there is no escaping.
func Compile(filter string) (*Filter, error) {
	f := &Filter{src: filter}
	pending := false
	for i := 0; i < len(filter); i++ {
		switch c := filter[i]; c {
		case MetaAny:
			f.nodes = append(f.nodes, node{kind: nodeAny})
		case MetaRun:
			pending = true
		default:
			f.nodes = append(f.nodes, node{kind: nodeLit, sym: c, persist: pending})
			pending = false
		}
	}
	if pending {
		f.nodes = append(f.nodes, node{kind: nodeRest, persist: true})
	}
	if len(f.nodes) == 0 {
		return nil, CompileError{Filter: filter, err: ErrEmptyFilter}
	}
	f.bound = f.concurrency()
	return f, nil
}

func MustCompile(filter string) *Filter {
	f, err := Compile(filter)
	if err != nil {
		panic(err)
	}
	return f
}

// concurrency computes the maximum number of simultaneously active states.
// Active sets stay ordered by node index and free of duplicates. Nodes
// before the first persistent one are only ever active one at a time, all
// others may be active together.
func (f *Filter) concurrency() int {
	for i := range f.nodes {
		if f.nodes[i].persist {
			return max(1, len(f.nodes)-i)
		}
	}
	return 1
}

// String returns the source text of the filter.
func (f *Filter) String() string { return f.src }

// Len returns the number of compiled nodes.
func (f *Filter) Len() int { return len(f.nodes) }

// Bound returns the maximum number of states a Matcher of f will ever have
// active at the same time.
func (f *Filter) Bound() int { return f.bound }

// LegacyBound returns max(1, 2×persistent literals), the estimate used by
// earlier implementations. It is too small for e.g. "*a?b".
func (f *Filter) LegacyBound() int {
	n := 0
	for i := range f.nodes {
		if f.nodes[i].kind == nodeLit && f.nodes[i].persist {
			n += 2
		}
	}
	return max(1, n)
}

// Match reports whether the complete line matches f.
func (f *Filter) Match(line []byte) bool {
	m := f.NewMatcher()
	for _, b := range line {
		if m.Step(b) != KeepGoing {
			break
		}
	}
	return m.Matched()
}
