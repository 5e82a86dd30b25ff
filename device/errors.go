// SPDX-License-Identifier: GPL-2.0-or-later

package device

import "github.com/pkg/errors"

var (
	// ErrNoDevice reports that audio output is not available. It is fatal.
	ErrNoDevice = errors.New("no audio device support")
	ErrClosed   = errors.New("device context closed")
)
