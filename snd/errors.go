// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import "github.com/pkg/errors"

var ErrUnknownFilterKind = errors.New("unknown filter kind")
