// Copyright (c) 2025 WNI

package ru_test

import (
	"github.com/wni-ru/ru"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("dotted path access", func() {
	It("resolves both dotted-index and bracket-index notation to the same node", func() {
		root, _, err := ru.ParseSchema("rows:+[id:UINT32]")
		Expect(err).ToNot(HaveOccurred())
		rows, _ := root.Member("rows")
		e, err := rows.AppendNew()
		Expect(err).ToNot(HaveOccurred())
		idField, _ := e.Member("id")
		idField.SetInt(42)

		byDot, err := ru.GetPath(root, "rows.0.id")
		Expect(err).ToNot(HaveOccurred())
		Expect(byDot.Int()).To(Equal(int64(42)))

		byBracket, err := ru.GetPath(root, "rows[0].id")
		Expect(err).ToNot(HaveOccurred())
		Expect(byBracket.Int()).To(Equal(int64(42)))
	})

	It("parses segments into Name/Index form", func() {
		segs := ru.ParsePath("a.b[2].c")
		Expect(segs).To(HaveLen(4))
		Expect(segs[0]).To(Equal(ru.Segment{Name: "a"}))
		Expect(segs[1]).To(Equal(ru.Segment{Name: "b"}))
		Expect(segs[2]).To(Equal(ru.Segment{Index: 2, IsIndex: true}))
		Expect(segs[3]).To(Equal(ru.Segment{Name: "c"}))
	})
})
