// Copyright (c) 2025 WNI

package ru

import (
	"bytes"
	"fmt"
	"io"
)

// Container is the facade over a whole RU file: its header, its compiled
// schema tree, the size-reference resolver, and the per-type encoding
// overrides. A Container is not safe for concurrent use; separate
// instances share nothing.
type Container struct {
	header         *Header
	root           *Node
	sizeNames      map[string]bool
	encodings      map[string]string
	encodingErrors map[string]string
}

// newEncodingTable seeds the one compiled-in default the original format
// always carried: STR decodes as euc_jp unless overridden, never left
// unset (see SPEC_FULL.md section 3.2).
func newEncodingTable() map[string]string {
	return map[string]string{StrTypeSTR: "euc_jp"}
}

// Load reads a full container from r: header, then exactly data_size body
// bytes, decompressed per compress_type, then parsed against the schema
// named in the header's format key and decoded into a tree.
func Load(r io.Reader, strict bool) (*Container, error) {
	h, err := LoadHeader(r, strict)
	if err != nil {
		return nil, err
	}
	root, sizeNames, err := ParseSchema(h.Get(KeyFormat))
	if err != nil {
		return nil, err
	}

	raw, err := readFull(r, h.DataSize(), "body")
	if err != nil {
		return nil, err
	}
	body, err := decompressBody(h.Get(KeyCompressType), raw)
	if err != nil {
		return nil, err
	}

	c := &Container{
		header:         h,
		root:           root,
		sizeNames:      sizeNames,
		encodings:      newEncodingTable(),
		encodingErrors: make(map[string]string),
	}
	rc := &ctx{resolver: newResolver(sizeNames), encodings: c.encodings, encodingErrors: c.encodingErrors}
	if err := root.read(rc, bytes.NewReader(body)); err != nil {
		return nil, err
	}
	return c, nil
}

// Create parses h's format schema into a fresh, zero-valued tree without
// reading a body; the caller populates it before calling Save.
func Create(h *Header) (*Container, error) {
	root, sizeNames, err := ParseSchema(h.Get(KeyFormat))
	if err != nil {
		return nil, err
	}
	c := &Container{
		header:         h,
		root:           root,
		sizeNames:      sizeNames,
		encodings:      newEncodingTable(),
		encodingErrors: make(map[string]string),
	}
	if err := zeroStruct(root); err != nil {
		return nil, err
	}
	return c, nil
}

// zeroStruct gives every array node an empty, non-nil item slice and
// every struct's nested struct/array members their zero shape, so a
// freshly created tree can be walked (Resize, Append, Member, At) before
// anything has been read.
func zeroStruct(n *Node) error {
	switch n.kind {
	case KindStruct:
		for _, m := range n.members {
			if err := zeroStruct(m); err != nil {
				return err
			}
		}
	case KindArray:
		n.items = []*Node{}
	}
	return nil
}

// Save writes the tree, compresses it per the header's compress_type,
// updates data_size to the compressed length, and emits header + body.
func (c *Container) Save(w io.Writer) error {
	var buf bytes.Buffer
	rc := &ctx{resolver: newResolver(c.sizeNames), encodings: c.encodings, encodingErrors: c.encodingErrors}
	if err := c.root.write(rc, &buf); err != nil {
		return err
	}
	compressed, err := compressBody(c.header.Get(KeyCompressType), buf.Bytes())
	if err != nil {
		return err
	}
	c.header.SetDataSize(len(compressed))
	if err := c.header.Save(w); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

// GetRoot returns the container's root struct node (name "/").
func (c *Container) GetRoot() *Node { return c.root }

// GetHeader returns the container's header.
func (c *Container) GetHeader() *Header { return c.header }

// SetEncoding overrides the encoding (and optionally the error mode) used
// for a string type, e.g. SetEncoding("STR", "utf_8"). Per section 4.4,
// an override on the bare type name also governs its N-prefixed fixed
// variant unless that variant has its own override.
func (c *Container) SetEncoding(typeName, enc string, errMode ...string) error {
	family := typeName
	if len(typeName) > 1 && typeName[0] == 'N' {
		family = typeName[1:]
	}
	if _, ok := strFamilyNames[family]; !ok {
		return newErr(EncodingFailed, typeName, "unknown string type")
	}
	c.encodings[typeName] = enc
	if len(errMode) > 0 {
		c.encodingErrors[typeName] = errMode[0]
	}
	return nil
}

// Dump writes the header's lines followed by one line per leaf field, as
// "dotted.path=value", with time-shaped structs rendered via their
// canonical 6-tuple string rather than path entries for their members.
func (c *Container) Dump(w io.Writer) {
	c.header.Dump(w)
	dumpNode(w, c.root, "")
}

func dumpNode(w io.Writer, n *Node, path string) {
	switch n.kind {
	case KindStruct:
		if n.IsTimeStruct() {
			y, mo, d, h, mi, s := n.GetTimeTuple()
			fmt.Fprintf(w, "%s=%04d/%02d/%02d %02d:%02d:%02d GMT\n", path, y, mo, d, h, mi, s)
			return
		}
		for _, m := range n.members {
			dumpNode(w, m, joinPath(path, m.name))
		}
	case KindArray:
		for i, e := range n.items {
			dumpNode(w, e, fmt.Sprintf("%s[%d]", path, i))
		}
	case KindScalar:
		if n.scalarKind.isFloat() {
			fmt.Fprintf(w, "%s=%v\n", path, n.Float())
		} else {
			fmt.Fprintf(w, "%s=%d\n", path, n.Int())
		}
	case KindString:
		fmt.Fprintf(w, "%s=%s\n", path, n.strVal)
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
