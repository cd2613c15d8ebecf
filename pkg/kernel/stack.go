package kernel

const stackFill byte = 0xa5

var stackCanary = [...]byte{0xde, 0xad, 0xbe, 0xef}

// newStack allocates a stack of size bytes whose last guard bytes hold the
// canary pattern. The usable part is filled for high-water measurement.
func newStack(size, guard int) ([]byte, int) {
	s := make([]byte, size)
	usable := size - guard
	for n := range s[:usable] {
		s[n] = stackFill
	}
	for n := usable; n < size; n++ {
		s[n] = stackCanary[(n-usable)%len(stackCanary)]
	}
	return s, usable
}

func stackIntact(t *tcb) bool {
	for n := t.usable; n < len(t.stack); n++ {
		if t.stack[n] != stackCanary[(n-t.usable)%len(stackCanary)] {
			return false
		}
	}
	return true
}

// stackHighWater gets the number of bytes of the usable stack ever written.
func stackHighWater(t *tcb) int {
	for n := t.usable - 1; n >= 0; n-- {
		if t.stack[n] != stackFill {
			return n + 1
		}
	}
	return 0
}
