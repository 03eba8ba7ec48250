// Copyright 2014-2015, Erik Moqvist
//
// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.
//
// This library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.

package kernel

import "fmt"

// Errno is the kernel's small signed return code. Zero is success,
// negative values are errors. It is returned across the shell/RPC
// surface verbatim, so it is kept as a distinct integer type rather
// than wrapped in the standard error interface.
type Errno int

// Sentinel error codes, see spec §7.
const (
	OK Errno = 0

	// ErrTimedOut is returned when a suspension timer expires before
	// any resume arrives.
	ErrTimedOut Errno = -1

	// ErrInval is returned for a bad argument to a shell command or API.
	ErrInval Errno = -2

	// ErrSrch is returned when a thread name lookup fails.
	ErrSrch Errno = -3

	// ErrStack is raised when a stack canary is found breached. It is
	// fatal and never returned to a caller; it is only passed to the
	// fatal callback.
	ErrStack Errno = -4
)

func (e Errno) Error() string {
	switch e {
	case OK:
		return "ok"
	case ErrTimedOut:
		return "timedout"
	case ErrInval:
		return "invalid argument"
	case ErrSrch:
		return "no such thread"
	case ErrStack:
		return "stack canary breached"
	default:
		return fmt.Sprintf("errno(%d)", int(e))
	}
}
