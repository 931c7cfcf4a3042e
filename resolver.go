// Copyright (c) 2025 WNI

package ru

// resolver tracks the live value of every field named as an array's
// symbolic size, scoped by struct nesting depth. A schema's parse pass
// registers which names are legal size references; read/write then
// publish an integer scalar's value under its name each time one is
// visited, and array handling looks the current value back up.
//
// Depth-scoping mirrors lexical scope: a name published inside a struct
// is visible to array sizes within that struct and is discarded the
// moment the struct is left, so a sibling field of the same name at an
// outer depth is not shadowed incorrectly.
type resolver struct {
	registered map[string]bool
	stacks     map[string]map[int]int64
	depth      int
}

func newResolver(registered map[string]bool) *resolver {
	return &resolver{
		registered: registered,
		stacks:     make(map[string]map[int]int64),
	}
}

// enterStruct and leaveStruct bracket the read/write of a struct's member
// list. leaveStruct drops every name's entry recorded at the depth being
// left, so values scoped to that struct stop being visible once it ends.
func (r *resolver) enterStruct() {
	r.depth++
}

func (r *resolver) leaveStruct() {
	for _, stack := range r.stacks {
		delete(stack, r.depth)
	}
	r.depth--
}

// publish records v as the current value of name at the resolver's
// present depth. Unregistered names are silently ignored: not every
// integer scalar is used as a size reference, and the schema's parse
// pass is what decides which ones are.
func (r *resolver) publish(name string, v int64) {
	if !r.registered[name] {
		return
	}
	stack, ok := r.stacks[name]
	if !ok {
		stack = make(map[int]int64)
		r.stacks[name] = stack
	}
	stack[r.depth] = v
}

// get resolves name to the value published at the deepest active depth.
// UnknownSizeRef fires for a name the schema never registered;
// UnsetSizeRef fires for a registered name with no value published yet
// (the sibling/ancestor field it names hasn't been read or set).
func (r *resolver) get(name string) (int64, error) {
	if !r.registered[name] {
		return 0, newErr(UnknownSizeRef, name, "")
	}
	stack, ok := r.stacks[name]
	if !ok || len(stack) == 0 {
		return 0, newErr(UnsetSizeRef, name, "")
	}
	found := false
	var best int
	var val int64
	for d, v := range stack {
		if !found || d > best {
			best, val, found = d, v, true
		}
	}
	if !found {
		return 0, newErr(UnsetSizeRef, name, "")
	}
	return val, nil
}
