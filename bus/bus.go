// bus.go
package bus

import "strings"

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a '/'-separated path split into levels.
type Topic []string

const (
	SingleWildcard = "+"
	MultiWildcard  = "#"
)

// T builds a topic from levels.
func T(levels ...string) Topic { return Topic(levels) }

// Parse splits s on '/'. Empty levels are kept, so "a//b" has three levels.
func Parse(s string) Topic {
	if s == "" {
		return nil
	}
	return Topic(strings.Split(s, "/"))
}

func (t Topic) String() string { return strings.Join(t, "/") }
func (t Topic) Len() int       { return len(t) }

// At returns level i or "" when out of range.
func (t Topic) At(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic   Topic
	Payload string
}

// Handler runs to completion on the caller's goroutine.
type Handler func(m *Message)

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[string]*node
	handlers []Handler
}

// -----------------------------------------------------------------------------
// Router
// -----------------------------------------------------------------------------

// Router dispatches inbound messages to handlers registered on topic
// patterns. It is synchronous and owned by a single goroutine, so it takes
// no locks.
type Router struct {
	root      *node
	unmatched Handler
}

func NewRouter() *Router { return &Router{root: &node{}} }

// Handle registers h for pattern. '+' matches exactly one level; '#' as the
// last level matches zero or more remaining levels.
func (r *Router) Handle(pattern Topic, h Handler) {
	n := r.root
	for _, tok := range pattern {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.handlers = append(n.handlers, h)
}

// HandleString is Handle with a '/'-separated pattern.
func (r *Router) HandleString(pattern string, h Handler) { r.Handle(Parse(pattern), h) }

// NotFound sets a handler invoked when nothing matches.
func (r *Router) NotFound(h Handler) { r.unmatched = h }

// Dispatch delivers m to every matching handler in registration order per
// node (exact levels before '+', '+' before '#') and returns the count.
func (r *Router) Dispatch(m *Message) int {
	n := r.match(r.root, m.Topic, m)
	if n == 0 && r.unmatched != nil {
		r.unmatched(m)
	}
	return n
}

func (r *Router) match(n *node, rest Topic, m *Message) int {
	if n == nil {
		return 0
	}
	count := 0
	if len(rest) == 0 {
		for _, h := range n.handlers {
			h(m)
			count++
		}
		// "a/#" also matches "a".
		if hn := n.children[MultiWildcard]; hn != nil {
			for _, h := range hn.handlers {
				h(m)
				count++
			}
		}
		return count
	}
	if n.children == nil {
		return 0
	}
	count += r.match(n.children[rest[0]], rest[1:], m)
	count += r.match(n.children[SingleWildcard], rest[1:], m)
	if hn := n.children[MultiWildcard]; hn != nil {
		for _, h := range hn.handlers {
			h(m)
			count++
		}
	}
	return count
}
