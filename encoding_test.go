// Copyright (c) 2025 WNI

package ru_test

import (
	"bytes"

	"github.com/wni-ru/ru"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("string encoding cascade", func() {
	It("defaults NSTR-family fields to their compiled-in encoding", func() {
		h := baseHeader("s:<8>NESTR")
		c, err := ru.Create(h)
		Expect(err).ToNot(HaveOccurred())
		s, _ := c.GetRoot().Member("s")
		s.SetStr("abc")

		var buf bytes.Buffer
		Expect(c.Save(&buf)).To(Succeed())

		c2, err := ru.Load(bytes.NewReader(buf.Bytes()), true)
		Expect(err).ToNot(HaveOccurred())
		s2, _ := c2.GetRoot().Member("s")
		Expect(s2.Str()).To(Equal("abc"))
	})

	It("round-trips a NUL-terminated string's raw bytes under the bytes encoding", func() {
		h := baseHeader("s:STR")
		c, err := ru.Create(h)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.SetEncoding("STR", "bytes")).To(Succeed())
		s, _ := c.GetRoot().Member("s")
		s.SetStr("hello")

		var buf bytes.Buffer
		Expect(c.Save(&buf)).To(Succeed())

		c2, err := ru.Load(bytes.NewReader(buf.Bytes()), true)
		Expect(err).ToNot(HaveOccurred())
		Expect(c2.SetEncoding("STR", "bytes")).To(Succeed())
		s2, _ := c2.GetRoot().Member("s")
		Expect(s2.Str()).To(Equal("hello"))
	})

	It("fails EncodingFailed under strict ascii on a high-bit byte", func() {
		h := baseHeader("s:<4>NSTR")
		c, err := ru.Create(h)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.SetEncoding("STR", "ascii", "strict")).To(Succeed())
		s, _ := c.GetRoot().Member("s")
		s.SetStr("é")

		var buf bytes.Buffer
		err = c.Save(&buf)
		Expect(err).To(HaveOccurred())
	})
})
