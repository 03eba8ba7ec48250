package kernel

import "encoding/binary"

// Stack bookkeeping, spec §4.7. The stack buffer's lowest-addressed word
// holds the canary; the remainder is filled with a known byte pattern so
// StackUsed can report how deep a thread has touched its stack.
const (
	stackCanaryMagic uint32 = 0x1337
	stackFillByte    byte   = 0x19
	canarySize              = 4
)

func setCanary(stack []byte) {
	binary.LittleEndian.PutUint32(stack, stackCanaryMagic)
}

func canaryOK(stack []byte) bool {
	if len(stack) < canarySize {
		return false
	}
	return binary.LittleEndian.Uint32(stack) == stackCanaryMagic
}

func fillStack(stack []byte) {
	for i := canarySize; i < len(stack); i++ {
		stack[i] = stackFillByte
	}
}

// stackUsed scans from the low end (just above the canary word) for the
// first byte that no longer matches the fill pattern, and reports the
// number of bytes between there and the top of the stack.
func stackUsed(stack []byte) int {
	i := canarySize
	for i < len(stack) && stack[i] == stackFillByte {
		i++
	}
	return len(stack) - i
}
