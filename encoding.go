// Copyright (c) 2025 WNI

package ru

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// String type family codes, as they appear (sans the "N" fixed-size
// prefix) in the schema DSL and in the per-type encoding override table.
const (
	StrTypeSTR  = "STR"
	StrTypeESTR = "ESTR"
	StrTypeJSTR = "JSTR"
	StrTypeSSTR = "SSTR"
	StrTypeUSTR = "USTR"
)

// compiledDefault is the encoding a string family uses when the container
// has no override for it. STR has no compiled default -- it falls all the
// way through to Container's pre-seeded "euc_jp" override or, failing
// that, ascii (see newEncodingTable in container.go).
var compiledDefault = map[string]string{
	StrTypeSTR:  "",
	StrTypeESTR: "euc_jp",
	StrTypeJSTR: "iso2022_jp",
	StrTypeSSTR: "shift_jis",
	StrTypeUSTR: "utf_8",
}

// resolveEncoding implements the cascade from spec.md section 4.4: a
// per-type override on the container wins; for the fixed-size "N"-prefixed
// family it falls back to the override for the non-N form; failing that,
// the node's compiled-in default; failing that, ascii. Error-mode
// resolves through the identical cascade, defaulting to "strict".
func resolveEncoding(overrides, errOverrides map[string]string, typeCode string, fixed bool) (string, string) {
	key := typeCode
	if fixed {
		key = "N" + typeCode
	}
	enc, ok := overrides[key]
	if !ok && fixed {
		enc, ok = overrides[typeCode]
	}
	if !ok || enc == "" {
		enc = compiledDefault[typeCode]
	}
	if enc == "" {
		enc = "ascii"
	}

	errs, ok := errOverrides[key]
	if !ok && fixed {
		errs, ok = errOverrides[typeCode]
	}
	if !ok || errs == "" {
		errs = "strict"
	}
	return enc, errs
}

func textEncoder(name string) (encoding.Encoding, bool) {
	switch strings.ToLower(name) {
	case "euc_jp", "euc-jp", "eucjp":
		return japanese.EUCJP, true
	case "iso2022_jp", "iso-2022-jp", "iso2022jp":
		return japanese.ISO2022JP, true
	case "shift_jis", "shiftjis", "sjis", "shift-jis":
		return japanese.ShiftJIS, true
	case "utf_8", "utf-8", "utf8":
		return unicode.UTF8, true
	default:
		return nil, false
	}
}

// decodeBytes turns raw string-field bytes into a Go string per the
// resolved encoding and error mode. "ascii" and "bytes" are handled
// specially: "bytes" means a raw, undecoded pass-through; "ascii" rejects
// (or replaces/ignores) any byte with the high bit set.
func decodeBytes(encName, errMode string, b []byte) (string, error) {
	switch strings.ToLower(encName) {
	case "bytes":
		return string(b), nil
	case "ascii":
		return decodeASCII(errMode, b)
	}
	enc, ok := textEncoder(encName)
	if !ok {
		return "", newErr(EncodingFailed, "", "unknown encoding "+encName)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		if errMode == "strict" {
			return "", wrapErr(EncodingFailed, "", "decode with "+encName, err)
		}
		return string(out), nil
	}
	if strings.Contains(string(out), string(utf8.RuneError)) && errMode == "strict" {
		return "", newErr(EncodingFailed, "", "invalid "+encName+" sequence")
	}
	if errMode == "ignore" {
		out = []byte(strings.ReplaceAll(string(out), string(utf8.RuneError), ""))
	}
	return string(out), nil
}

// encodeText turns a Go string back into raw bytes per the resolved
// encoding and error mode.
func encodeText(encName, errMode string, s string) ([]byte, error) {
	switch strings.ToLower(encName) {
	case "bytes":
		return []byte(s), nil
	case "ascii":
		return encodeASCII(errMode, s)
	}
	enc, ok := textEncoder(encName)
	if !ok {
		return nil, newErr(EncodingFailed, "", "unknown encoding "+encName)
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		if errMode == "strict" {
			return nil, wrapErr(EncodingFailed, "", "encode with "+encName, err)
		}
		return out, nil
	}
	return out, nil
}

func decodeASCII(errMode string, b []byte) (string, error) {
	var sb strings.Builder
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		switch errMode {
		case "ignore":
			continue
		case "replace":
			sb.WriteByte('?')
		default:
			return "", newErr(EncodingFailed, "", "non-ascii byte in ascii field")
		}
	}
	return sb.String(), nil
}

func encodeASCII(errMode string, s string) ([]byte, error) {
	var out []byte
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		switch errMode {
		case "ignore":
			continue
		case "replace":
			out = append(out, '?')
		default:
			return nil, newErr(EncodingFailed, "", "non-ascii rune in ascii field")
		}
	}
	return out, nil
}
