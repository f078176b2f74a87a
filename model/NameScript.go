package model

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
)

// NameOpType is the kind of name operation a locking script carries.
type NameOpType int

const (
	// OpNameNew commits to a salted hash of a name without revealing it.
	OpNameNew NameOpType = iota + 1

	// OpNameFirstUpdate reveals the name and registers its first value.
	OpNameFirstUpdate

	// OpNameUpdate replaces the value (and owner script) of a live name.
	OpNameUpdate
)

func (t NameOpType) String() string {
	switch t {
	case OpNameNew:
		return "NAME_NEW"
	case OpNameFirstUpdate:
		return "NAME_FIRSTUPDATE"
	case OpNameUpdate:
		return "NAME_UPDATE"
	default:
		return "UNKNOWN"
	}
}

// NameScript is the parsed name prefix of a locking script. The name
// operation is prepended to an ordinary address script:
//
//	NAME_NEW:         OP_1 <hash> OP_2DROP <address script>
//	NAME_FIRSTUPDATE: OP_2 <name> <rand> <value> OP_2DROP OP_2DROP <address script>
//	NAME_UPDATE:      OP_3 <name> <value> OP_2DROP OP_DROP <address script>
type NameScript struct {
	Op            NameOpType
	Hash          []byte
	Name          []byte
	Rand          []byte
	Value         []byte
	AddressScript []byte
}

// IsAnyUpdate reports whether the operation carries a name and value, i.e.
// it changes the name database.
func (ns *NameScript) IsAnyUpdate() bool {
	return ns.Op == OpNameFirstUpdate || ns.Op == OpNameUpdate
}

// ExtractNameScript parses the name prefix off a locking script. It returns
// false for scripts that carry no (well-formed) name operation; those are
// ordinary currency outputs.
func ExtractNameScript(script []byte) (*NameScript, bool) {
	if len(script) == 0 {
		return nil, false
	}

	var op NameOpType

	switch script[0] {
	case bscript.Op1:
		op = OpNameNew
	case bscript.Op2:
		op = OpNameFirstUpdate
	case bscript.Op3:
		op = OpNameUpdate
	default:
		return nil, false
	}

	offset := 1

	readPush := func() ([]byte, bool) {
		data, next, ok := readScriptPush(script, offset)
		if !ok {
			return nil, false
		}
		offset = next

		return data, true
	}

	expectOp := func(opcode byte) bool {
		if offset >= len(script) || script[offset] != opcode {
			return false
		}
		offset++

		return true
	}

	ns := &NameScript{Op: op}

	switch op {
	case OpNameNew:
		hash, ok := readPush()
		if !ok {
			return nil, false
		}

		ns.Hash = hash

		if !expectOp(bscript.Op2DROP) {
			return nil, false
		}

	case OpNameFirstUpdate:
		var ok bool

		if ns.Name, ok = readPush(); !ok {
			return nil, false
		}

		if ns.Rand, ok = readPush(); !ok {
			return nil, false
		}

		if ns.Value, ok = readPush(); !ok {
			return nil, false
		}

		if !expectOp(bscript.Op2DROP) || !expectOp(bscript.Op2DROP) {
			return nil, false
		}

	case OpNameUpdate:
		var ok bool

		if ns.Name, ok = readPush(); !ok {
			return nil, false
		}

		if ns.Value, ok = readPush(); !ok {
			return nil, false
		}

		if !expectOp(bscript.Op2DROP) || !expectOp(bscript.OpDROP) {
			return nil, false
		}
	}

	ns.AddressScript = script[offset:]

	return ns, true
}

// BuildNameScript composes a locking script from a name operation and the
// address script it protects.
func (ns *NameScript) BuildNameScript() []byte {
	b := make([]byte, 0, 8+len(ns.Name)+len(ns.Value)+len(ns.Hash)+len(ns.Rand)+len(ns.AddressScript))

	switch ns.Op {
	case OpNameNew:
		b = append(b, bscript.Op1)
		b = appendScriptPush(b, ns.Hash)
		b = append(b, bscript.Op2DROP)
	case OpNameFirstUpdate:
		b = append(b, bscript.Op2)
		b = appendScriptPush(b, ns.Name)
		b = appendScriptPush(b, ns.Rand)
		b = appendScriptPush(b, ns.Value)
		b = append(b, bscript.Op2DROP, bscript.Op2DROP)
	case OpNameUpdate:
		b = append(b, bscript.Op3)
		b = appendScriptPush(b, ns.Name)
		b = appendScriptPush(b, ns.Value)
		b = append(b, bscript.Op2DROP, bscript.OpDROP)
	}

	return append(b, ns.AddressScript...)
}

// NameFromScript is a convenience for callers that only care whether a coin
// script names a record in the name database.
func NameFromScript(script []byte) ([]byte, bool) {
	ns, ok := ExtractNameScript(script)
	if !ok || !ns.IsAnyUpdate() {
		return nil, false
	}

	return ns.Name, true
}

// readScriptPush decodes one data push starting at offset. Only plain data
// pushes are accepted; numeric opcodes never appear in name prefixes.
func readScriptPush(script []byte, offset int) ([]byte, int, bool) {
	if offset >= len(script) {
		return nil, 0, false
	}

	opcode := script[offset]
	offset++

	var length int

	switch {
	case opcode == bscript.Op0:
		length = 0
	case opcode > 0 && opcode < bscript.OpPUSHDATA1:
		length = int(opcode)
	case opcode == bscript.OpPUSHDATA1:
		if offset+1 > len(script) {
			return nil, 0, false
		}

		length = int(script[offset])
		offset++
	case opcode == bscript.OpPUSHDATA2:
		if offset+2 > len(script) {
			return nil, 0, false
		}

		length = int(script[offset]) | int(script[offset+1])<<8
		offset += 2
	case opcode == bscript.OpPUSHDATA4:
		if offset+4 > len(script) {
			return nil, 0, false
		}

		length = int(script[offset]) | int(script[offset+1])<<8 | int(script[offset+2])<<16 | int(script[offset+3])<<24
		offset += 4
	default:
		return nil, 0, false
	}

	if offset+length > len(script) {
		return nil, 0, false
	}

	return script[offset : offset+length], offset + length, true
}

func appendScriptPush(b, data []byte) []byte {
	l := len(data)

	switch {
	case l < int(bscript.OpPUSHDATA1):
		b = append(b, byte(l))
	case l <= 0xff:
		b = append(b, bscript.OpPUSHDATA1, byte(l))
	case l <= 0xffff:
		b = append(b, bscript.OpPUSHDATA2, byte(l), byte(l>>8))
	default:
		b = append(b, bscript.OpPUSHDATA4, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	}

	return append(b, data...)
}
