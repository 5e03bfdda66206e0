package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

// QueryOp is the boolean operator a query node applies to its components.
type QueryOp int

const (
	OpAnd QueryOp = iota
	OpOr
	OpNot
)

// QueryNode is a composable predicate over a page's component signature,
// the same And/Or/Not tree shape warehouse's query.go builds, evaluated
// against one domain's mask at a time.
type QueryNode interface {
	evaluate(sig mask.Mask) bool
	components() []Component
}

type node struct {
	op       QueryOp
	comps    []Component
	children []QueryNode
	schema   *domainStore
}

func (n *node) components() []Component { return n.comps }

func (n *node) mask() mask.Mask {
	var m mask.Mask
	for _, c := range n.comps {
		n.schema.schema.Register(c)
		m.Mark(n.schema.schema.RowIndexFor(c))
	}
	return m
}

func (n *node) evaluate(sig mask.Mask) bool {
	m := n.mask()
	switch n.op {
	case OpAnd:
		if !sig.ContainsAll(m) {
			return false
		}
		for _, ch := range n.children {
			if !ch.evaluate(sig) {
				return false
			}
		}
		return true
	case OpOr:
		if sig.ContainsAny(m) {
			return true
		}
		for _, ch := range n.children {
			if ch.evaluate(sig) {
				return true
			}
		}
		return false
	case OpNot:
		if len(n.comps) > 0 && !sig.ContainsNone(m) {
			return false
		}
		for _, ch := range n.children {
			if ch.evaluate(sig) {
				return false
			}
		}
		return true
	}
	return false
}

// Query is the entry point a caller builds a predicate tree from: And,
// Or and Not all return composable QueryNodes.
type Query struct {
	domain *domainStore
}

func (q Query) And(items ...interface{}) QueryNode { return q.build(OpAnd, items) }
func (q Query) Or(items ...interface{}) QueryNode   { return q.build(OpOr, items) }
func (q Query) Not(items ...interface{}) QueryNode  { return q.build(OpNot, items) }

func (q Query) build(op QueryOp, items []interface{}) QueryNode {
	n := &node{op: op, schema: q.domain}
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			n.comps = append(n.comps, v)
		case []Component:
			n.comps = append(n.comps, v...)
		case QueryNode:
			n.children = append(n.children, v)
		default:
			panic(fmt.Errorf("ecs: invalid query item type %T", item))
		}
	}
	return n
}

// allComponents walks a node tree and flattens every referenced component,
// used by the planner to decide which domains a query touches and, for a
// Transversal plan, which domain drives iteration. Order matters here: the
// first component in the returned slice is the one whose domain the
// planner picks as driver, so this preserves first-occurrence order (the
// order the caller listed components in, top-level items before nested
// children) rather than sorting or deduping through map iteration.
func allComponents(n QueryNode) []Component {
	seen := map[uint32]bool{}
	var out []Component
	var walk func(QueryNode)
	walk = func(n QueryNode) {
		for _, c := range n.components() {
			if seen[c.ID()] {
				continue
			}
			seen[c.ID()] = true
			out = append(out, c)
		}
		if cn, ok := n.(*node); ok {
			for _, ch := range cn.children {
				walk(ch)
			}
		}
	}
	walk(n)
	return out
}
