// Copyright (c) 2025 WNI

package ru_test

import (
	"bytes"

	"github.com/wni-ru/ru"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("compress_type", func() {
	It("stores the body verbatim when compress_type is absent", func() {
		h := baseHeader("v:INT32")
		c, err := ru.Create(h)
		Expect(err).ToNot(HaveOccurred())
		v, _ := c.GetRoot().Member("v")
		v.SetInt(7)

		var buf bytes.Buffer
		Expect(c.Save(&buf)).To(Succeed())
		Expect(c.GetHeader().DataSize()).To(Equal(4))
	})

	It("shrinks data_size relative to the uncompressed body under gzip for compressible data", func() {
		h := baseHeader("tail:+UINT8")
		Expect(h.Set(ru.KeyCompressType, ru.CompressGzip)).To(Succeed())
		c, err := ru.Create(h)
		Expect(err).ToNot(HaveOccurred())
		tail, _ := c.GetRoot().Member("tail")
		for i := 0; i < 500; i++ {
			_, err := tail.Append(int64(0))
			Expect(err).ToNot(HaveOccurred())
		}

		var buf bytes.Buffer
		Expect(c.Save(&buf)).To(Succeed())
		Expect(c.GetHeader().DataSize()).To(BeNumerically("<", 500))
	})
})
