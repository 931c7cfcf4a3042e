// Copyright (c) 2025 WNI

package ru

import (
	"strconv"
	"strings"
)

// Segment is one step of a dotted access path: either a struct member
// name or an array index. "rows.2.name" and "rows[2].name" both parse to
// the same three segments.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// ParsePath splits a dotted path string into its segments. An all-digit
// component, or one wrapped in '[' ']', is taken as an array index.
func ParsePath(path string) []Segment {
	var segs []Segment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			if i := strings.IndexByte(part, '['); i >= 0 {
				if i > 0 {
					segs = append(segs, Segment{Name: part[:i]})
				}
				j := strings.IndexByte(part[i:], ']')
				if j < 0 {
					segs = append(segs, Segment{Name: part[i+1:]})
					part = ""
					continue
				}
				idxStr := part[i+1 : i+j]
				if n, err := strconv.Atoi(idxStr); err == nil {
					segs = append(segs, Segment{Index: n, IsIndex: true})
				}
				part = part[i+j+1:]
				continue
			}
			if n, err := strconv.Atoi(part); err == nil {
				segs = append(segs, Segment{Index: n, IsIndex: true})
			} else {
				segs = append(segs, Segment{Name: part})
			}
			part = ""
		}
	}
	return segs
}

// GetPath walks n along path, returning the leaf Node.
func GetPath(n *Node, path string) (*Node, error) {
	cur := n
	for _, seg := range ParsePath(path) {
		var err error
		cur, err = step(cur, seg)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func step(cur *Node, seg Segment) (*Node, error) {
	if seg.IsIndex {
		return cur.At(seg.Index)
	}
	return cur.Member(seg.Name)
}
