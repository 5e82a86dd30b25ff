// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import "github.com/pkg/errors"

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid setting value")
	ErrNotRunning     = errors.New("scene not running")
	ErrNotDraggable   = errors.New("emitter can not be dragged")
)
