// Copyright (c) 2025 WNI

package ru

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// Compression type names recognized in the compress_type header key.
const (
	CompressNone  = ""
	CompressGzip  = "gzip"
	CompressBzip2 = "bzip2"
)

// compressBody compresses buf under the named codec. An empty name returns
// buf unchanged. Any other name fails with UnsupportedCompression.
func compressBody(name string, buf []byte) ([]byte, error) {
	switch name {
	case CompressNone:
		return buf, nil
	case CompressGzip:
		var out bytes.Buffer
		gw := gzip.NewWriter(&out)
		if _, err := gw.Write(buf); err != nil {
			return nil, wrapErr(DecompressionFailed, "", "gzip compress", err)
		}
		if err := gw.Close(); err != nil {
			return nil, wrapErr(DecompressionFailed, "", "gzip compress", err)
		}
		return out.Bytes(), nil
	case CompressBzip2:
		var out bytes.Buffer
		bw, err := bzip2.NewWriter(&out, nil)
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "", "bzip2 compress", err)
		}
		if _, err := bw.Write(buf); err != nil {
			return nil, wrapErr(DecompressionFailed, "", "bzip2 compress", err)
		}
		if err := bw.Close(); err != nil {
			return nil, wrapErr(DecompressionFailed, "", "bzip2 compress", err)
		}
		return out.Bytes(), nil
	default:
		return nil, newErr(UnsupportedCompression, name, "")
	}
}

// decompressBody decompresses buf under the named codec. An empty name
// returns buf unchanged. Any other name fails with UnsupportedCompression.
func decompressBody(name string, buf []byte) ([]byte, error) {
	switch name {
	case CompressNone:
		return buf, nil
	case CompressGzip:
		gr, err := gzip.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "", "gzip decompress", err)
		}
		defer gr.Close()
		out, err := io.ReadAll(gr)
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "", "gzip decompress", err)
		}
		return out, nil
	case CompressBzip2:
		br, err := bzip2.NewReader(bytes.NewReader(buf), nil)
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "", "bzip2 decompress", err)
		}
		defer br.Close()
		out, err := io.ReadAll(br)
		if err != nil {
			return nil, wrapErr(DecompressionFailed, "", "bzip2 decompress", err)
		}
		return out, nil
	default:
		return nil, newErr(UnsupportedCompression, name, "")
	}
}
