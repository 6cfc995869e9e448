// Launcher Core
// Copyright (c) 2025 The Open Launcher Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Launcher Core.
//
// Launcher Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Launcher Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Launcher Core.  If not, see <http://www.gnu.org/licenses/>.

package remote

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// ErrTransient marks failures caused by the network rather than the
// request itself: timeouts, refused connections, DNS. Callers may retry;
// only the profile sync loop does so automatically.
var ErrTransient = errors.New("transient network error")

// ErrProfileUnavailable is returned when the backend has no usable
// launch data for the requested profile.
var ErrProfileUnavailable = errors.New("profile has no launch data")

// IsTransient reports whether err represents a failure worth retrying
// on a fresh connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// A URL error that made it this far is a transport failure,
		// not a bad response.
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
