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

package notifications

import (
	"testing"

	"github.com/OpenLauncherProject/launcher-core/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDelivers(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	Error(ns, "Error", "something broke")

	n := <-ns
	assert.Equal(t, models.NotificationError, n.Method)
	params := n.Params.(models.ErrorParams)
	assert.Equal(t, "Error", params.Headline)
	assert.Equal(t, "something broke", params.Message)
}

func TestSendNeverBlocks(t *testing.T) {
	t.Parallel()

	// Unbuffered channel with no subscriber: every send must drop
	// instead of stalling the caller.
	ns := make(chan models.Notification)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Reconnecting(ns)
		Progress(ns, models.ProgressParams{Busy: true})
		AuthState(ns, models.AuthStateParams{State: models.AuthStateUnauthenticated})
	}()
	<-done
}

func TestSendDropsWhenFull(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	SelectionChanged(ns, models.SelectionParams{Name: "Survival"})
	SelectionChanged(ns, models.SelectionParams{Name: "Creative"})

	// Only the first event fits; the second is dropped, not queued.
	n := <-ns
	require.Equal(t, "Survival", n.Params.(models.SelectionParams).Name)
	select {
	case n := <-ns:
		t.Fatalf("unexpected second notification: %+v", n)
	default:
	}
}
