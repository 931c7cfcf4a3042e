// Copyright (c) 2025 WNI

// Package ru reads and writes ReUsable (RU) containers: a small
// self-describing binary format pairing an ASCII key=value header with a
// body whose layout is described by a runtime schema string rather than
// a compiled-in record type.
//
/*

A container on the wire looks like:

	"WN\n"                         -- 3-byte signature
	key=value \n key=value \n ...  -- header lines, '\'-continuation
	"\x04\x1a"                     -- header sentinel
	<data_size bytes>              -- body, possibly compressed

The header's format key holds a schema string in the following grammar:

	field_list := NAME ':' type (',' NAME ':' type)*
	type       := '{' (NUMBER | NAME) '}' type      -- sized array
	            | '+' type                           -- unbounded array
	            | '[' field_list ']'                 -- nested struct
	            | builtin
	builtin    := SCALAR_NAME
	            | STR_NAME                           -- NUL-terminated family
	            | '<' NUMBER '>' NSTR_NAME           -- fixed-size family

SCALAR_NAME is one of INT8, UINT8, INT16, UINT16, INT32, UINT32, FLOAT32,
FLOAT64. STR_NAME is one of STR, ESTR, JSTR, SSTR, USTR (EUC-JP by
default through the container's encoding table, EUC-JP, ISO-2022-JP,
Shift-JIS, UTF-8; Container.SetEncoding overrides any of them); prefixing with N and a '<N>' byte
count selects the fixed-size form of the same family instead of a
NUL-terminated one.

Example:

	t:[year:UINT16,mon:UINT8,day:UINT8],n:UINT16,rows:{n}[id:UINT32,name:<16>NUSTR],tail:+UINT8

A struct t of three integers; n sizes the array rows, whose element is an
unnamed nested struct; tail is an unbounded array consuming whatever
bytes remain in the body.

ParseSchema compiles such a string into a tree of *Node; Load and Create
build a *Container around that tree, reading or letting the caller
populate it, and Save serializes it back to the wire format above.
*/
package ru
