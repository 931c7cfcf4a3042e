// Copyright (c) 2025 WNI

package ru

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Header key names, in the canonical order they are emitted on Save.
const (
	KeyAnnounced     = "announced"
	KeyCreated       = "created"
	KeyCompressType  = "compress_type"
	KeyGlobalID      = "global_id"
	KeyCategory      = "category"
	KeyDataID        = "data_id"
	KeyDataName      = "data_name"
	KeyDataSize      = "data_size"
	KeyFormat        = "format"
	KeyHeaderComment = "header_comment"
	KeyHeaderVersion = "header_version"
	KeyRevision      = "revision"
)

// headerKeys is the canonical key order used by both Save and the fixed
// set of keys recognized on Load.
var headerKeys = []string{
	KeyAnnounced, KeyCreated, KeyCompressType,
	KeyGlobalID, KeyCategory, KeyDataID,
	KeyDataName, KeyDataSize,
	KeyFormat, KeyHeaderComment, KeyHeaderVersion, KeyRevision,
}

// headerOptionalKeys are keys allowed to be absent even under strict Load.
var headerOptionalKeys = map[string]bool{
	KeyCompressType: true,
}

var headerSignature = []byte("WN\n")
var headerSentinel = []byte{0x04, 0x1a}

var headerTimeRe = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2}):(\d{2})`)

// Header is the textual key=value preamble of an RU container, bounded by
// the "WN\n" signature and the 0x04 0x1a sentinel.
type Header struct {
	values map[string]string // raw string form for every key except timestamps
	times  map[string]time.Time
	set    map[string]bool
}

// NewHeader returns an empty Header with no keys set.
func NewHeader() *Header {
	return &Header{
		values: make(map[string]string),
		times:  make(map[string]time.Time),
		set:    make(map[string]bool),
	}
}

// Get returns the string form of a header value, or "" if unset.
func (h *Header) Get(key string) string {
	if !h.set[key] {
		return ""
	}
	if key == KeyAnnounced || key == KeyCreated {
		return formatRUTime(h.times[key])
	}
	return h.values[key]
}

// IsSet reports whether key has been given a value.
func (h *Header) IsSet(key string) bool { return h.set[key] }

// Set assigns a free-form string value to a header key (not announced,
// created, or data_size, which have dedicated setters below). Lengths of
// global_id/category/data_id are enforced both here and on Save.
func (h *Header) Set(key, value string) error {
	if err := checkTagLength(key, value); err != nil {
		return err
	}
	h.values[key] = value
	h.set[key] = true
	return nil
}

// SetTime assigns announced or created.
func (h *Header) SetTime(key string, t time.Time) {
	h.times[key] = t
	h.set[key] = true
}

// Time returns the announced/created timestamp.
func (h *Header) Time(key string) time.Time { return h.times[key] }

// SetDataSize assigns data_size. Header.Save emits the stored value as is;
// Container.Save overwrites it with the actual length of the emitted
// (possibly compressed) body before saving the header.
func (h *Header) SetDataSize(n int) {
	h.values[KeyDataSize] = fmt.Sprintf("%d", n)
	h.set[KeyDataSize] = true
}

// DataSize returns the stored data_size, or 0 if unset.
func (h *Header) DataSize() int {
	var n int
	fmt.Sscanf(h.values[KeyDataSize], "%d", &n)
	return n
}

func checkTagLength(key, value string) error {
	switch key {
	case KeyGlobalID, KeyCategory:
		if len(value) != 4 {
			return newErr(BadLength, key, fmt.Sprintf("%q length %d != 4", value, len(value)))
		}
	case KeyDataID:
		if len(value) != 8 {
			return newErr(BadLength, key, fmt.Sprintf("%q length %d != 8", value, len(value)))
		}
	}
	return nil
}

// LoadHeader reads the RU header from r. When strict, any non-optional key
// missing from the stream fails with MissingKey; otherwise it is left unset.
func LoadHeader(r io.Reader, strict bool) (*Header, error) {
	sig, err := readFull(r, len(headerSignature), "signature")
	if err != nil || !bytes.Equal(sig, headerSignature) {
		return nil, newErr(NoHeader, "", "missing WN signature")
	}

	var raw []byte
	one := make([]byte, 1)
	for {
		n, err := r.Read(one)
		if n == 0 || err != nil {
			return nil, newErr(UnexpectedEof, "", "header sentinel not found")
		}
		raw = append(raw, one[0])
		if len(raw) >= len(headerSentinel) && bytes.Equal(raw[len(raw)-len(headerSentinel):], headerSentinel) {
			raw = raw[:len(raw)-len(headerSentinel)]
			break
		}
	}

	h := NewHeader()
	processLine := func(line string) error {
		pos := strings.IndexByte(line, '=')
		var key, value string
		if pos >= 0 {
			key = strings.TrimSpace(line[:pos])
			value = strings.TrimSpace(line[pos+1:])
		} else {
			key = strings.TrimSpace(line)
		}
		if key == "" {
			return nil
		}
		if !isHeaderKey(key) {
			return newErr(UnknownKey, key, "")
		}
		switch key {
		case KeyAnnounced, KeyCreated:
			t, err := parseRUTime(value)
			if err != nil {
				return newErr(InvalidHeader, key, fmt.Sprintf("cannot parse time %q", value))
			}
			h.SetTime(key, t)
		case KeyDataSize:
			var n int
			if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
				return newErr(InvalidHeader, key, fmt.Sprintf("not an integer: %q", value))
			}
			h.SetDataSize(n)
		default:
			if err := h.Set(key, value); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	var pending string
	haveLine := false
	for scanner.Scan() {
		if haveLine {
			pending = pending[:len(pending)-1] + scanner.Text()
		} else {
			pending = scanner.Text()
			haveLine = true
		}
		if strings.HasSuffix(pending, "\\") {
			continue
		}
		if err := processLine(pending); err != nil {
			return nil, err
		}
		haveLine = false
		pending = ""
	}
	if haveLine {
		if strings.HasSuffix(pending, "\\") {
			return nil, newErr(UnexpectedEof, "", "unterminated continuation line")
		}
		if err := processLine(pending); err != nil {
			return nil, err
		}
	}

	for _, key := range headerKeys {
		if h.set[key] {
			continue
		}
		if strict && !headerOptionalKeys[key] {
			return nil, newErr(MissingKey, key, "")
		}
	}
	return h, nil
}

func isHeaderKey(key string) bool {
	for _, k := range headerKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Save emits the header in canonical key order, signature first, sentinel
// last. MissingValue fires for any non-optional key left unset; BadLength
// fires for a mis-sized global_id/category/data_id.
func (h *Header) Save(w io.Writer) error {
	if _, err := w.Write(headerSignature); err != nil {
		return err
	}
	for _, key := range headerKeys {
		if !h.set[key] {
			if headerOptionalKeys[key] {
				continue
			}
			return newErr(MissingValue, key, "")
		}
		var value string
		switch key {
		case KeyAnnounced, KeyCreated:
			value = formatRUTime(h.times[key])
		default:
			value = h.values[key]
			if err := checkTagLength(key, value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, value); err != nil {
			return err
		}
	}
	_, err := w.Write(headerSentinel)
	return err
}

// Dump prints the header in the same "key=value" form Save emits, one line
// per set key, skipping unset optional keys.
func (h *Header) Dump(w io.Writer) {
	for _, key := range headerKeys {
		if !h.set[key] {
			continue
		}
		fmt.Fprintf(w, "%s=%s\n", key, h.Get(key))
	}
}

func parseRUTime(s string) (time.Time, error) {
	m := headerTimeRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("no match")
	}
	var year, month, day, hour, min, sec int
	fmt.Sscanf(m[1], "%d", &year)
	fmt.Sscanf(m[2], "%d", &month)
	fmt.Sscanf(m[3], "%d", &day)
	fmt.Sscanf(m[4], "%d", &hour)
	fmt.Sscanf(m[5], "%d", &min)
	fmt.Sscanf(m[6], "%d", &sec)
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}

func formatRUTime(t time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d GMT",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}
