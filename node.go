// Copyright (c) 2025 WNI

package ru

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// NodeKind is the tag of the Node tagged union. Every Node is exactly one
// of these four shapes; there is no subclassing, only a switch on NodeKind.
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindString
	KindArray
	KindStruct
)

func (k NodeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// ScalarKind distinguishes the fixed-width numeric types the schema DSL
// can name directly.
type ScalarKind int

const (
	KindInt8 ScalarKind = iota
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindFloat64
)

func (k ScalarKind) size() int {
	switch k {
	case KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	default:
		return 0
	}
}

func (k ScalarKind) isFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k ScalarKind) typeName() string {
	switch k {
	case KindInt8:
		return "INT8"
	case KindUint8:
		return "UINT8"
	case KindInt16:
		return "INT16"
	case KindUint16:
		return "UINT16"
	case KindInt32:
		return "INT32"
	case KindUint32:
		return "UINT32"
	case KindFloat32:
		return "FLOAT32"
	case KindFloat64:
		return "FLOAT64"
	default:
		return "?"
	}
}

// Node is a single field of a parsed RU schema: a scalar, a string, an
// array, or a struct. Children of a struct or the element template of an
// array are themselves Nodes, so a whole schema is one Node tree rooted
// at a struct named "/".
type Node struct {
	name string
	kind NodeKind

	// KindScalar
	scalarKind ScalarKind
	intVal     int64
	floatVal   float64

	// KindString
	strFamily string // StrTypeSTR, StrTypeESTR, StrTypeJSTR, StrTypeSSTR, StrTypeUSTR
	fixed     bool
	fixedSize int
	strVal    string

	// KindArray
	elem      *Node // shape template for every element
	literal   int   // literal size, or -1 if sized by name/unbounded
	sizeName  string
	unbounded bool
	items     []*Node

	// KindStruct
	members   []*Node
	memberIdx map[string]int
}

// Name returns the node's field name ("/" for the schema root).
func (n *Node) Name() string { return n.name }

// NodeKind returns the node's tag.
func (n *Node) NodeKind() NodeKind { return n.kind }

func newScalarNode(name string, sk ScalarKind) *Node {
	return &Node{name: name, kind: KindScalar, scalarKind: sk}
}

func newStringNode(name, family string, fixed bool, size int) *Node {
	return &Node{name: name, kind: KindString, strFamily: family, fixed: fixed, fixedSize: size}
}

func newArrayNode(name string, elem *Node, literal int, sizeName string, unbounded bool) *Node {
	return &Node{name: name, kind: KindArray, elem: elem, literal: literal, sizeName: sizeName, unbounded: unbounded}
}

func newStructNode(name string, members []*Node) *Node {
	idx := make(map[string]int, len(members))
	for i, m := range members {
		idx[m.name] = i
	}
	return &Node{name: name, kind: KindStruct, members: members, memberIdx: idx}
}

// clone deep-copies a node; it seeds each new array element from the
// array's element template.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.elem != nil {
		c.elem = n.elem.clone()
	}
	if n.items != nil {
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.clone()
		}
	}
	if n.members != nil {
		c.members = make([]*Node, len(n.members))
		for i, m := range n.members {
			c.members[i] = m.clone()
		}
		c.memberIdx = make(map[string]int, len(n.memberIdx))
		for k, v := range n.memberIdx {
			c.memberIdx[k] = v
		}
	}
	return &c
}

// Int returns a scalar node's integer value. Zero for non-integer kinds.
func (n *Node) Int() int64 { return n.intVal }

// SetInt assigns a scalar node's integer value. It is a no-op on
// non-scalar or floating-point nodes.
func (n *Node) SetInt(v int64) {
	if n.kind == KindScalar && !n.scalarKind.isFloat() {
		n.intVal = v
	}
}

// Float returns a scalar node's floating-point value.
func (n *Node) Float() float64 {
	if n.scalarKind.isFloat() {
		return n.floatVal
	}
	return float64(n.intVal)
}

// SetFloat assigns a scalar node's floating-point value.
func (n *Node) SetFloat(v float64) {
	if n.kind == KindScalar && n.scalarKind.isFloat() {
		n.floatVal = v
	}
}

// Str returns a string node's decoded value.
func (n *Node) Str() string { return n.strVal }

// SetStr assigns a string node's value. The value is encoded against the
// field's resolved encoding at write time, not here.
func (n *Node) SetStr(v string) { n.strVal = v }

// Member looks up a struct node's field by name.
func (n *Node) Member(name string) (*Node, error) {
	if n.kind != KindStruct {
		return nil, newErr(TypeMismatch, n.name, "not a struct")
	}
	i, ok := n.memberIdx[name]
	if !ok {
		return nil, newErr(TypeMismatch, name, "no such member")
	}
	return n.members[i], nil
}

// Members returns a struct node's fields in schema order.
func (n *Node) Members() []*Node { return n.members }

// Len returns an array node's current element count.
func (n *Node) Len() int { return len(n.items) }

// At returns the array element at index i.
func (n *Node) At(i int) (*Node, error) {
	if n.kind != KindArray {
		return nil, newErr(TypeMismatch, n.name, "not an array")
	}
	if i < 0 || i >= len(n.items) {
		return nil, newErr(IndexOutOfRange, n.name, fmt.Sprintf("index %d, length %d", i, len(n.items)))
	}
	return n.items[i], nil
}

// Resize grows or shrinks an array node to exactly size elements,
// cloning the element template for any new slots. It is the caller's
// responsibility to keep a sized-by-name array's own size field in sync
// before Save; Resize does not touch sibling fields.
func (n *Node) Resize(size int) error {
	if n.kind != KindArray {
		return newErr(TypeMismatch, n.name, "not an array")
	}
	if size < 0 {
		return newErr(IndexOutOfRange, n.name, "negative size")
	}
	if size <= len(n.items) {
		n.items = n.items[:size]
		return nil
	}
	for len(n.items) < size {
		n.items = append(n.items, n.elem.clone())
	}
	return nil
}

// AppendNew grows a struct- or array-element array by one and returns a
// reference to the new element, for element shapes that can't be set by
// plain value (nested structs or arrays). Use Append for scalar/string
// elements.
func (n *Node) AppendNew() (*Node, error) {
	if n.kind != KindArray {
		return nil, newErr(TypeMismatch, n.name, "not an array")
	}
	e := n.elem.clone()
	n.items = append(n.items, e)
	return e, nil
}

// Append grows a scalar- or string-element array by one, setting the new
// element's value directly from v (int64, float64, or string, matching
// the element's own kind). Use AppendNew for struct/array elements.
func (n *Node) Append(v interface{}) (*Node, error) {
	if n.kind != KindArray {
		return nil, newErr(TypeMismatch, n.name, "not an array")
	}
	e := n.elem.clone()
	switch e.kind {
	case KindScalar:
		switch val := v.(type) {
		case int64:
			e.SetInt(val)
		case int:
			e.SetInt(int64(val))
		case float64:
			e.SetFloat(val)
		default:
			return nil, newErr(TypeMismatch, n.name, "value does not match scalar element")
		}
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, newErr(TypeMismatch, n.name, "value does not match string element")
		}
		e.SetStr(s)
	default:
		return nil, newErr(TypeMismatch, n.name, "element is not a scalar or string; use AppendNew")
	}
	n.items = append(n.items, e)
	return e, nil
}

// ctx carries the per-read/write state threaded through the Node tree:
// the size resolver and the container's encoding override tables.
type ctx struct {
	resolver       *resolver
	encodings      map[string]string
	encodingErrors map[string]string
}

func (c *ctx) encodingFor(family string, fixed bool) (string, string) {
	return resolveEncoding(c.encodings, c.encodingErrors, family, fixed)
}

// read fills n from r, recursing into arrays and structs and publishing
// every integer scalar's value to the resolver under its own name.
func (n *Node) read(c *ctx, r io.Reader) error {
	switch n.kind {
	case KindScalar:
		return n.readScalar(r)
	case KindString:
		return n.readString(c, r)
	case KindArray:
		return n.readArray(c, r)
	case KindStruct:
		return n.readStruct(c, r)
	default:
		return newErr(TypeMismatch, n.name, "unknown node kind")
	}
}

func (n *Node) readScalar(r io.Reader) error {
	buf, err := readFull(r, n.scalarKind.size(), n.name)
	if err != nil {
		return err
	}
	switch n.scalarKind {
	case KindInt8:
		n.intVal = int64(int8(buf[0]))
	case KindUint8:
		n.intVal = int64(buf[0])
	case KindInt16:
		n.intVal = int64(int16(binary.BigEndian.Uint16(buf)))
	case KindUint16:
		n.intVal = int64(binary.BigEndian.Uint16(buf))
	case KindInt32:
		n.intVal = int64(int32(binary.BigEndian.Uint32(buf)))
	case KindUint32:
		n.intVal = int64(binary.BigEndian.Uint32(buf))
	case KindFloat32:
		n.floatVal = float64(math.Float32frombits(binary.BigEndian.Uint32(buf)))
	case KindFloat64:
		n.floatVal = math.Float64frombits(binary.BigEndian.Uint64(buf))
	}
	return nil
}

func (n *Node) readString(c *ctx, r io.Reader) error {
	var raw []byte
	if n.fixed {
		buf, err := readFull(r, n.fixedSize, n.name)
		if err != nil {
			return err
		}
		// Drop the zero padding writeString adds after a short value.
		raw = bytes.TrimRight(buf, "\x00")
	} else {
		one := make([]byte, 1)
		for {
			got, err := r.Read(one)
			if got == 0 || err != nil {
				return unexpectedEofError(n.name)
			}
			if one[0] == 0 {
				break
			}
			raw = append(raw, one[0])
		}
	}
	enc, errMode := c.encodingFor(n.strFamily, n.fixed)
	s, err := decodeBytes(enc, errMode, raw)
	if err != nil {
		return err
	}
	n.strVal = s
	return nil
}

func (n *Node) readArray(c *ctx, r io.Reader) error {
	size, err := n.arraySize(c)
	if err != nil {
		return err
	}
	n.items = make([]*Node, 0, maxInt(size, 0))
	if n.unbounded {
		// Pre-slice the exact remainder, matching the original's
		// array_io: the loop only stops cleanly at the boundary (no
		// bytes left to start another element); a partial trailing
		// element past that boundary is a genuine UnexpectedEof, not a
		// clean stop, and must propagate rather than be swallowed.
		remainder, err := io.ReadAll(r)
		if err != nil {
			return wrapErr(UnexpectedEof, n.name, "reading array remainder", err)
		}
		sub := bytes.NewReader(remainder)
		for sub.Len() > 0 {
			e := n.elem.clone()
			if err := e.read(c, sub); err != nil {
				return err
			}
			n.items = append(n.items, e)
		}
		return nil
	}
	for i := 0; i < size; i++ {
		e := n.elem.clone()
		if err := e.read(c, r); err != nil {
			return err
		}
		n.items = append(n.items, e)
	}
	return nil
}

func (n *Node) arraySize(c *ctx) (int, error) {
	if n.unbounded {
		return -1, nil
	}
	if n.sizeName != "" {
		v, err := c.resolver.get(n.sizeName)
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	return n.literal, nil
}

func (n *Node) readStruct(c *ctx, r io.Reader) error {
	isRoot := n.name == "/"
	if !isRoot {
		c.resolver.enterStruct()
	}
	for _, m := range n.members {
		if err := m.read(c, r); err != nil {
			if !isRoot {
				c.resolver.leaveStruct()
			}
			return err
		}
		if m.kind == KindScalar && !m.scalarKind.isFloat() {
			c.resolver.publish(m.name, m.intVal)
		}
	}
	if !isRoot {
		c.resolver.leaveStruct()
	}
	return nil
}

// write serializes n to w, recursing and publishing the same way read does.
func (n *Node) write(c *ctx, w io.Writer) error {
	switch n.kind {
	case KindScalar:
		return n.writeScalar(w)
	case KindString:
		return n.writeString(c, w)
	case KindArray:
		return n.writeArray(c, w)
	case KindStruct:
		return n.writeStruct(c, w)
	default:
		return newErr(TypeMismatch, n.name, "unknown node kind")
	}
}

func (n *Node) writeScalar(w io.Writer) error {
	buf := make([]byte, n.scalarKind.size())
	switch n.scalarKind {
	case KindInt8:
		buf[0] = byte(int8(n.intVal))
	case KindUint8:
		buf[0] = byte(n.intVal)
	case KindInt16:
		binary.BigEndian.PutUint16(buf, uint16(int16(n.intVal)))
	case KindUint16:
		binary.BigEndian.PutUint16(buf, uint16(n.intVal))
	case KindInt32:
		binary.BigEndian.PutUint32(buf, uint32(int32(n.intVal)))
	case KindUint32:
		binary.BigEndian.PutUint32(buf, uint32(n.intVal))
	case KindFloat32:
		binary.BigEndian.PutUint32(buf, math.Float32bits(float32(n.floatVal)))
	case KindFloat64:
		binary.BigEndian.PutUint64(buf, math.Float64bits(n.floatVal))
	}
	_, err := w.Write(buf)
	return err
}

func (n *Node) writeString(c *ctx, w io.Writer) error {
	enc, errMode := c.encodingFor(n.strFamily, n.fixed)
	raw, err := encodeText(enc, errMode, n.strVal)
	if err != nil {
		return err
	}
	if n.fixed {
		// Right-pad a short value with zero bytes; truncate a long one to
		// exactly fixedSize bytes.
		buf := make([]byte, n.fixedSize)
		copy(buf, raw)
		_, err := w.Write(buf)
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = w.Write([]byte{0})
	return err
}

func (n *Node) writeArray(c *ctx, w io.Writer) error {
	if !n.unbounded && n.sizeName == "" && n.literal != len(n.items) {
		return arraySizeMismatchError(n.name, len(n.items), n.literal)
	}
	for _, e := range n.items {
		if err := e.write(c, w); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) writeStruct(c *ctx, w io.Writer) error {
	isRoot := n.name == "/"
	if !isRoot {
		c.resolver.enterStruct()
	}
	for _, m := range n.members {
		if err := m.write(c, w); err != nil {
			if !isRoot {
				c.resolver.leaveStruct()
			}
			return err
		}
		if m.kind == KindScalar && !m.scalarKind.isFloat() {
			c.resolver.publish(m.name, m.intVal)
		}
	}
	if !isRoot {
		c.resolver.leaveStruct()
	}
	return nil
}

// typeString renders n's type, without its own name, back into schema
// DSL text.
func (n *Node) typeString() string {
	switch n.kind {
	case KindScalar:
		return n.scalarKind.typeName()
	case KindString:
		if n.fixed {
			return fmt.Sprintf("<%d>N%s", n.fixedSize, n.strFamily)
		}
		return n.strFamily
	case KindArray:
		inner := n.elem.typeString()
		switch {
		case n.unbounded:
			return "+" + inner
		case n.sizeName != "":
			return "{" + n.sizeName + "}" + inner
		default:
			return fmt.Sprintf("{%d}%s", n.literal, inner)
		}
	case KindStruct:
		return "[" + n.fieldListString() + "]"
	default:
		return ""
	}
}

func (n *Node) fieldListString() string {
	parts := make([]string, len(n.members))
	for i, m := range n.members {
		parts[i] = m.name + ":" + m.typeString()
	}
	return strings.Join(parts, ",")
}

// NameType renders n back into schema DSL text: the bare field-list
// grammar for the root struct ("/"), or "name:type" for any other node.
// Re-parsing the result with ParseSchema yields a structurally equivalent
// tree, matching the original's get_name_type normalization.
func (n *Node) NameType() string {
	if n.kind == KindStruct && n.name == "/" {
		return n.fieldListString()
	}
	return n.name + ":" + n.typeString()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
