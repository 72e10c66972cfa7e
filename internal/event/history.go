package event

import "github.com/dshills/bindstorm/internal/event/pattern"

// record is one historical delivery owed to a late subscriber.
type record struct {
	name   string
	values Values
}

// history retains published values for replay to late subscribers.
// Ordinary events keep only the most recent values per name; sticky events
// keep every published value in order. Callers must hold the bus mutex.
type history struct {
	lastValues map[string]Values
	sticky     map[string][]Values
}

func newHistory() *history {
	return &history{
		lastValues: make(map[string]Values),
		sticky:     make(map[string][]Values),
	}
}

// store records a publish. Non-sticky values replace the previous record
// for the name; sticky values append.
func (h *history) store(name string, values Values, sticky bool) {
	if sticky {
		h.sticky[name] = append(h.sticky[name], values)
		return
	}
	h.lastValues[name] = values
}

// replayFor collects the historical records a new listener with the given
// matcher is owed. For an exact matcher: the last ordinary value (if any)
// followed by the sticky log (if any) for that one name. For a wildcard
// matcher: the same per matched name, across every known name. Relative
// order across names is unspecified; sticky values for one name keep their
// publish order.
func (h *history) replayFor(m pattern.Matcher) []record {
	if !m.IsWildcard() {
		return h.replayName(m.String())
	}
	var records []record
	seen := make(map[string]bool)
	for name := range h.lastValues {
		if m.Matches(name) {
			records = append(records, h.replayName(name)...)
			seen[name] = true
		}
	}
	for name := range h.sticky {
		if !seen[name] && m.Matches(name) {
			records = append(records, h.replayName(name)...)
		}
	}
	return records
}

func (h *history) replayName(name string) []record {
	var records []record
	if values, ok := h.lastValues[name]; ok {
		records = append(records, record{name: name, values: values})
	}
	for _, values := range h.sticky[name] {
		records = append(records, record{name: name, values: values})
	}
	return records
}
