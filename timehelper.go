// Copyright (c) 2025 WNI

package ru

import "time"

// timeFieldAliases maps the canonical time components to the field
// names a struct node is checked against. Only year/month/day are
// mandatory for a struct to be considered time-shaped; the remaining
// components default to zero when absent.
var timeFieldAliases = map[string][]string{
	"year":   {"year"},
	"month":  {"month", "mon"},
	"day":    {"day"},
	"hour":   {"hour"},
	"minute": {"minute", "min"},
	"second": {"second", "sec"},
}

// timeMemberNames is the flat set of field names allowed in a time-shaped
// struct: year/month/day are mandatory, hour/minute/second optional, and
// no other member name may appear (spec.md section 3).
var timeMemberNames = func() map[string]bool {
	names := make(map[string]bool)
	for _, aliases := range timeFieldAliases {
		for _, a := range aliases {
			names[a] = true
		}
	}
	return names
}()

// IsTimeStruct reports whether n is a struct shaped like a timestamp:
// every member drawn from the recognized year/month/day/hour/minute/second
// names, with year, month, and day all present.
func (n *Node) IsTimeStruct() bool {
	if n.kind != KindStruct {
		return false
	}
	for _, m := range n.members {
		if !timeMemberNames[m.name] {
			return false
		}
	}
	for _, comp := range []string{"year", "month", "day"} {
		if findTimeField(n, comp) == nil {
			return false
		}
	}
	return true
}

func findTimeField(n *Node, component string) *Node {
	for _, alias := range timeFieldAliases[component] {
		if i, ok := n.memberIdx[alias]; ok && n.members[i].kind == KindScalar {
			return n.members[i]
		}
	}
	return nil
}

// GetTimeTuple returns a time-shaped struct's components as (year, month,
// day, hour, minute, second), each 0 if the struct has no such field.
func (n *Node) GetTimeTuple() (year, month, day, hour, minute, second int) {
	get := func(c string) int {
		if f := findTimeField(n, c); f != nil {
			return int(f.Int())
		}
		return 0
	}
	return get("year"), get("month"), get("day"), get("hour"), get("minute"), get("second")
}

// GetTime projects a time-shaped struct into a time.Time in UTC. It fails
// with InvalidDateTime for a year outside the proleptic Gregorian
// calendar's representable range (year < 1); GetTimeTuple has no such
// restriction and is what Dump uses instead.
func (n *Node) GetTime() (time.Time, error) {
	if !n.IsTimeStruct() {
		return time.Time{}, newErr(TypeMismatch, n.name, "not a time-shaped struct")
	}
	y, mo, d, h, mi, s := n.GetTimeTuple()
	if y < 1 {
		return time.Time{}, newErr(InvalidDateTime, n.name, "year must be >= 1")
	}
	return time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC), nil
}

// SetTime writes t's fields into a time-shaped struct's matching members,
// leaving any component the struct lacks untouched.
func (n *Node) SetTime(t time.Time) error {
	if !n.IsTimeStruct() {
		return newErr(TypeMismatch, n.name, "not a time-shaped struct")
	}
	set := func(c string, v int) {
		if f := findTimeField(n, c); f != nil {
			f.SetInt(int64(v))
		}
	}
	set("year", t.Year())
	set("month", int(t.Month()))
	set("day", t.Day())
	set("hour", t.Hour())
	set("minute", t.Minute())
	set("second", t.Second())
	return nil
}
