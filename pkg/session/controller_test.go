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

package session

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenLauncherProject/launcher-core/pkg/api/models"
	"github.com/OpenLauncherProject/launcher-core/pkg/locale"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/OpenLauncherProject/launcher-core/pkg/session/store"
	"github.com/OpenLauncherProject/launcher-core/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const notifyTimeout = 3 * time.Second

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type controllerEnv struct {
	client *mocks.MockRemoteClient
	st     *store.Store
	clock  *clockwork.FakeClock
	c      *Controller
	ns     <-chan models.Notification
}

func setupController(t *testing.T) *controllerEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	client := &mocks.MockRemoteClient{}
	clock := clockwork.NewFakeClock()

	c, ns := NewController(Options{
		Client: client,
		Store:  st,
		System: mocks.MockSystemIdentity{},
		Clock:  clock,
	})
	t.Cleanup(c.Close)

	return &controllerEnv{client: client, st: st, clock: clock, c: c, ns: ns}
}

// awaitNotification drains the stream until a notification with the
// given method arrives.
func awaitNotification(t *testing.T, ns <-chan models.Notification, method string) models.Notification {
	t.Helper()
	deadline := time.After(notifyTimeout)
	for {
		select {
		case n := <-ns:
			if n.Method == method {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s notification", method)
			return models.Notification{}
		}
	}
}

func authenticatedResult(name string) remote.AuthResult {
	return remote.AuthResult{
		User: remote.UserIdentity{
			Name:            name,
			UUID:            "uuid-" + name,
			AccessToken:     "token-" + name,
			IsAuthenticated: true,
		},
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.client.On("Authenticate", mock.Anything, "alice", "hunter2", "test-hwid").
		Return(authenticatedResult("alice"), nil)
	env.client.On("ListProfiles", mock.Anything).
		Return([]remote.Profile{{Name: "Survival"}, {Name: "Creative"}}, nil)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	require.NoError(t, env.c.Authenticate(context.Background(), "alice", "hunter2"))

	assert.Equal(t, StateAuthenticated, env.c.State())
	assert.Equal(t, "alice", env.c.User().Name)

	n := awaitNotification(t, env.ns, models.NotificationValidationErrors)
	assert.Empty(t, n.Params.(models.ValidationErrorsParams).Errors)

	n = awaitNotification(t, env.ns, models.NotificationAuthState)
	assert.Equal(t, models.AuthStateAuthenticated, n.Params.(models.AuthStateParams).State)
	assert.Equal(t, "alice", n.Params.(models.AuthStateParams).UserName)

	n = awaitNotification(t, env.ns, models.NotificationProfilesChanged)
	assert.Equal(t, []string{"Survival", "Creative"}, n.Params.(models.ProfilesParams).Names)

	n = awaitNotification(t, env.ns, models.NotificationSelectionChanged)
	assert.Equal(t, "Survival", n.Params.(models.SelectionParams).Name)

	// Session must survive a restart.
	sess, found, err := store.Get[Session](env.st, store.KeyUser)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "token-alice", sess.User.AccessToken)
}

func TestAuthenticateValidationDetails(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	details := []string{"Login must be at least 3 characters", "Password is required"}
	env.client.On("Authenticate", mock.Anything, "a", "", "test-hwid").
		Return(remote.AuthResult{Details: details}, nil)

	require.NoError(t, env.c.Authenticate(context.Background(), "a", ""))

	n := awaitNotification(t, env.ns, models.NotificationValidationErrors)
	assert.Equal(t, details, n.Params.(models.ValidationErrorsParams).Errors)

	assert.Equal(t, StateUnauthenticated, env.c.State())
	env.client.AssertNotCalled(t, "ListProfiles", mock.Anything)
}

func TestAuthenticateRejectedMessage(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.client.On("Authenticate", mock.Anything, "alice", "wrong", "test-hwid").
		Return(remote.AuthResult{Message: "unknown login or password"}, nil)

	require.NoError(t, env.c.Authenticate(context.Background(), "alice", "wrong"))

	n := awaitNotification(t, env.ns, models.NotificationError)
	params := n.Params.(models.ErrorParams)
	assert.Equal(t, locale.English.GetString(locale.KeyInvalidCredentials), params.Headline)
	assert.Equal(t, "unknown login or password", params.Message)
	assert.Equal(t, StateUnauthenticated, env.c.State())
}

func TestAuthenticateSecondFactorIsTerminal(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.client.On("Authenticate", mock.Anything, "alice", "hunter2", "test-hwid").
		Return(remote.AuthResult{HasSecondFactor: true}, nil)

	require.NoError(t, env.c.Authenticate(context.Background(), "alice", "hunter2"))

	assert.Equal(t, StatePendingSecondFactor, env.c.State())
	env.client.AssertNotCalled(t, "ListProfiles", mock.Anything)
}

func TestAuthenticateTransientError(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	netErr := fmt.Errorf("%w: connection refused", remote.ErrTransient)
	env.client.On("Authenticate", mock.Anything, "alice", "hunter2", "test-hwid").
		Return(remote.AuthResult{}, netErr)

	err := env.c.Authenticate(context.Background(), "alice", "hunter2")
	require.ErrorIs(t, err, remote.ErrTransient)

	n := awaitNotification(t, env.ns, models.NotificationError)
	assert.Equal(t, locale.English.GetString(locale.KeyLostConnection), n.Params.(models.ErrorParams).Headline)

	// No automatic retry: the user decides when to try again.
	assert.Equal(t, StateUnauthenticated, env.c.State())
	env.client.AssertNumberOfCalls(t, "Authenticate", 1)
}

func TestRestoreSessionValid(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	sess := Session{
		User:            remote.UserIdentity{Name: "bob", AccessToken: "tok", IsAuthenticated: true},
		IsAuthenticated: true,
	}
	require.NoError(t, store.Put(env.st, store.KeyUser, sess))

	env.client.On("ListProfiles", mock.Anything).
		Return([]remote.Profile{{Name: "Survival"}}, nil)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	env.c.RestoreSession()

	assert.Equal(t, StateAuthenticated, env.c.State())
	assert.Equal(t, "bob", env.c.User().Name)
	awaitNotification(t, env.ns, models.NotificationProfilesChanged)
}

func TestRestoreSessionAbsent(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.c.RestoreSession()

	n := awaitNotification(t, env.ns, models.NotificationAuthState)
	assert.Equal(t, models.AuthStateUnauthenticated, n.Params.(models.AuthStateParams).State)
	env.client.AssertNotCalled(t, "ListProfiles", mock.Anything)
}

func TestRestoreSessionInvalidToken(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	// Authenticated flag without a token cannot be restored.
	sess := Session{
		User:            remote.UserIdentity{Name: "bob", IsAuthenticated: true},
		IsAuthenticated: true,
	}
	require.NoError(t, store.Put(env.st, store.KeyUser, sess))

	env.c.RestoreSession()

	assert.Equal(t, StateUnauthenticated, env.c.State())
	env.client.AssertNotCalled(t, "ListProfiles", mock.Anything)
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.client.On("Authenticate", mock.Anything, "alice", "hunter2", "test-hwid").
		Return(authenticatedResult("alice"), nil)
	env.client.On("ListProfiles", mock.Anything).
		Return([]remote.Profile{{Name: "Survival"}}, nil)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	require.NoError(t, env.c.Authenticate(context.Background(), "alice", "hunter2"))
	awaitNotification(t, env.ns, models.NotificationProfilesChanged)

	env.c.Logout()

	assert.Equal(t, StateUnauthenticated, env.c.State())
	assert.Empty(t, env.c.Profiles())
	_, selected := env.c.Selected()
	assert.False(t, selected)

	sess, found, err := store.Get[Session](env.st, store.KeyUser)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, sess.Valid())
}

func TestSyncProfilesRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	netErr := fmt.Errorf("%w: connection reset", remote.ErrTransient)
	env.client.On("ListProfiles", mock.Anything).
		Return(nil, netErr).Twice()
	env.client.On("ListProfiles", mock.Anything).
		Return([]remote.Profile{{Name: "Survival"}}, nil).Once()
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	done := make(chan error, 1)
	go func() {
		done <- env.c.SyncProfiles(context.Background())
	}()

	// One reconnecting event per failed attempt.
	awaitNotification(t, env.ns, models.NotificationReconnecting)
	env.clock.BlockUntil(1)
	env.clock.Advance(reconnectDelay)

	awaitNotification(t, env.ns, models.NotificationReconnecting)
	env.clock.BlockUntil(1)
	env.clock.Advance(reconnectDelay)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(notifyTimeout):
		t.Fatal("timed out waiting for profile sync to finish")
	}

	n := awaitNotification(t, env.ns, models.NotificationProfilesChanged)
	assert.Equal(t, []string{"Survival"}, n.Params.(models.ProfilesParams).Names)
	env.client.AssertNumberOfCalls(t, "ListProfiles", 3)
}

func TestSyncProfilesStopsOnPermanentError(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	env.client.On("ListProfiles", mock.Anything).
		Return(nil, fmt.Errorf("catalog schema mismatch"))

	err := env.c.SyncProfiles(context.Background())
	require.Error(t, err)

	awaitNotification(t, env.ns, models.NotificationError)
	env.client.AssertNumberOfCalls(t, "ListProfiles", 1)
}

func TestSyncProfilesCancelDuringBackoff(t *testing.T) {
	t.Parallel()
	env := setupController(t)

	netErr := fmt.Errorf("%w: timeout", remote.ErrTransient)
	env.client.On("ListProfiles", mock.Anything).Return(nil, netErr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- env.c.SyncProfiles(ctx)
	}()

	awaitNotification(t, env.ns, models.NotificationReconnecting)
	env.clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(notifyTimeout):
		t.Fatal("timed out waiting for profile sync to stop")
	}
}

func TestApplyProfilesSelectionRules(t *testing.T) {
	t.Parallel()
	env := setupController(t)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	// First catalog: no selection and no persisted name, first wins.
	env.c.applyProfiles([]remote.Profile{{Name: "Survival"}, {Name: "Creative"}})
	sel, ok := env.c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Survival", sel.Name)

	// An explicit selection survives a catalog refresh.
	env.c.SelectProfile("Creative")
	env.c.applyProfiles([]remote.Profile{{Name: "Creative"}, {Name: "Survival"}})
	sel, ok = env.c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Creative", sel.Name)

	// When the selected name disappears, the persisted last selection
	// does not match either, so the first entry wins again.
	env.c.applyProfiles([]remote.Profile{{Name: "Hardcore"}})
	sel, ok = env.c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Hardcore", sel.Name)

	// Empty catalog clears the selection.
	env.c.applyProfiles(nil)
	_, ok = env.c.Selected()
	assert.False(t, ok)
}

func TestApplyProfilesRestoresPersistedSelection(t *testing.T) {
	t.Parallel()
	env := setupController(t)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	require.NoError(t, store.Put(env.st, store.KeyLastProfile, "Creative"))

	env.c.applyProfiles([]remote.Profile{{Name: "Survival"}, {Name: "Creative"}})
	sel, ok := env.c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Creative", sel.Name)
}

func TestSelectProfileUnknownIgnored(t *testing.T) {
	t.Parallel()
	env := setupController(t)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	env.c.applyProfiles([]remote.Profile{{Name: "Survival"}})
	env.c.SelectProfile("DoesNotExist")

	sel, ok := env.c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Survival", sel.Name)
}

func TestSelectProfileClearKeepsPersistedName(t *testing.T) {
	t.Parallel()
	env := setupController(t)
	env.client.On("LoadPresenceIntegration", mock.Anything).Return(nil).Maybe()
	env.client.On("UpdatePresence", mock.Anything, mock.Anything).Return(nil).Maybe()

	env.c.applyProfiles([]remote.Profile{{Name: "Survival"}})
	env.c.SelectProfile("Survival")
	env.c.SelectProfile("")

	_, ok := env.c.Selected()
	assert.False(t, ok)

	// Clearing does not erase the persisted name used on restart.
	last, found, err := store.Get[string](env.st, store.KeyLastProfile)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Survival", last)
}
