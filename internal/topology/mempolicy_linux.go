//go:build linux

package topology

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Memory policy modes from <linux/mempolicy.h>.
const (
	mpolDefault = 0
	mpolBind    = 2
)

func setMempolicy(mode int, mask []uint64) error {
	var ptr unsafe.Pointer
	var maxNode uintptr
	if len(mask) > 0 {
		ptr = unsafe.Pointer(&mask[0])
		maxNode = uintptr(len(mask)*64 + 1)
	}
	_, _, errno := unix.Syscall(unix.SYS_SET_MEMPOLICY, uintptr(mode), uintptr(ptr), maxNode)
	if errno != 0 {
		return errno
	}
	return nil
}

// withPlacement runs fn on a locked OS thread whose memory policy binds to
// p's node. A process forked from that thread inherits the policy, which
// then applies to every thread of the child.
func withPlacement(p Placement, fn func() error) error {
	if !p.Constrained {
		return fn()
	}
	if p.Node < 0 {
		return fmt.Errorf("invalid NUMA node %d", p.Node)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	mask := make([]uint64, p.Node/64+1)
	mask[p.Node/64] |= 1 << (uint(p.Node) % 64)
	if err := setMempolicy(mpolBind, mask); err != nil {
		return fmt.Errorf("failed to bind memory to NUMA node %d: %w", p.Node, err)
	}

	runErr := fn()
	if err := setMempolicy(mpolDefault, nil); err != nil && runErr == nil {
		return fmt.Errorf("failed to reset memory policy: %w", err)
	}
	return runErr
}

// PlacementSupported reports whether constrained placements can be applied.
func PlacementSupported() bool {
	return true
}
