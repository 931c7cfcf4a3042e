// Copyright (c) 2025 WNI

package ru

import "fmt"

// Kind classifies an Error by the failure taxonomy of the RU container format.
type Kind int

const (
	NoHeader Kind = iota
	UnexpectedEof
	InvalidHeader
	MissingKey
	MissingValue
	UnknownKey
	BadLength
	SchemaSyntax
	UnknownSizeRef
	UnsetSizeRef
	ArraySizeMismatch
	UnsupportedCompression
	DecompressionFailed
	EncodingFailed
	TypeMismatch
	IndexOutOfRange
	InvalidDateTime
)

func (k Kind) String() string {
	switch k {
	case NoHeader:
		return "NoHeader"
	case UnexpectedEof:
		return "UnexpectedEof"
	case InvalidHeader:
		return "InvalidHeader"
	case MissingKey:
		return "MissingKey"
	case MissingValue:
		return "MissingValue"
	case UnknownKey:
		return "UnknownKey"
	case BadLength:
		return "BadLength"
	case SchemaSyntax:
		return "SchemaSyntax"
	case UnknownSizeRef:
		return "UnknownSizeRef"
	case UnsetSizeRef:
		return "UnsetSizeRef"
	case ArraySizeMismatch:
		return "ArraySizeMismatch"
	case UnsupportedCompression:
		return "UnsupportedCompression"
	case DecompressionFailed:
		return "DecompressionFailed"
	case EncodingFailed:
		return "EncodingFailed"
	case TypeMismatch:
		return "TypeMismatch"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InvalidDateTime:
		return "InvalidDateTime"
	default:
		return "Unknown"
	}
}

// Error is the structured error raised by every component of the container.
// Node carries the offending node name, header key, or input prefix --
// whatever is sufficient to diagnose the site that failed.
type Error struct {
	Kind Kind
	Node string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Node != "" && e.Msg != "":
		return fmt.Sprintf("ru: %s: %s: %s", e.Kind, e.Node, e.Msg)
	case e.Node != "":
		return fmt.Sprintf("ru: %s: %s", e.Kind, e.Node)
	case e.Msg != "":
		return fmt.Sprintf("ru: %s: %s", e.Kind, e.Msg)
	default:
		return fmt.Sprintf("ru: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, node, msg string) *Error {
	return &Error{Kind: kind, Node: node, Msg: msg}
}

func wrapErr(kind Kind, node, msg string, err error) *Error {
	return &Error{Kind: kind, Node: node, Msg: msg, Err: err}
}

func unexpectedEofError(node string) error {
	return newErr(UnexpectedEof, node, "unexpected end of stream")
}

func arraySizeMismatchError(node string, got, want int) error {
	return newErr(ArraySizeMismatch, node, fmt.Sprintf("array has %d elements, expected %d", got, want))
}
