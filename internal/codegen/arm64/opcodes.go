// Package arm64 implements the AArch64 code generator of §4.6: it turns an
// ir.Module into assembly text, tracking string interning and data-section
// placement per module, and printing ValueLocations through one canonical
// textual form shared by every instruction emitter.
package arm64

// TypeOps is the per-type opcode table selected by a value's size in bytes
// (§4.6): narrower-than-word loads need an explicit sign/sign-extend
// mnemonic; everything from 4 bytes up reuses the plain ldr/str family at
// either 32- or 64-bit register width.
type TypeOps struct {
	LoadMnemonic  string
	StoreMnemonic string
	RegisterWidth int // 32 or 64
}

// OpsForSize returns the load/store mnemonics and register width for a
// value of the given size and signedness.
func OpsForSize(sizeBytes int, signed bool) TypeOps {
	switch sizeBytes {
	case 1:
		load := "ldrb"
		if signed {
			load = "ldrsb"
		}
		return TypeOps{LoadMnemonic: load, StoreMnemonic: "strb", RegisterWidth: 32}
	case 2:
		load := "ldrh"
		if signed {
			load = "ldrsh"
		}
		return TypeOps{LoadMnemonic: load, StoreMnemonic: "strh", RegisterWidth: 32}
	case 4:
		return TypeOps{LoadMnemonic: "ldr", StoreMnemonic: "str", RegisterWidth: 32}
	default:
		return TypeOps{LoadMnemonic: "ldr", StoreMnemonic: "str", RegisterWidth: 64}
	}
}

// RegName returns the Wn/Xn spelling of general-purpose register n at the
// given width. n=29/30 name the frame pointer and link register (always
// 64-bit, regardless of width) since the codegen addresses them by the
// same numbering it uses for allocatable registers.
func RegName(n int, width int) string {
	switch n {
	case 29:
		return "x29"
	case 30:
		return "x30"
	case 31:
		return "sp"
	}
	if width == 32 {
		return regSpelling("w", n)
	}
	return regSpelling("x", n)
}

func regSpelling(prefix string, n int) string {
	// Registers beyond x28 are never used for ordinary values, so any n
	// outside 0-28 gets a "?" placeholder; the number itself is spelled by
	// the local itoa helper rather than fmt.Sprintf.
	if n < 0 || n > 28 {
		return prefix + "?"
	}
	return prefix + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
