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
	"errors"
	"fmt"
	"time"

	"github.com/OpenLauncherProject/launcher-core/pkg/api/models"
	"github.com/OpenLauncherProject/launcher-core/pkg/api/notifications"
	"github.com/OpenLauncherProject/launcher-core/pkg/database/sessiondb"
	"github.com/OpenLauncherProject/launcher-core/pkg/helpers/syncutil"
	"github.com/OpenLauncherProject/launcher-core/pkg/launcher"
	"github.com/OpenLauncherProject/launcher-core/pkg/locale"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/OpenLauncherProject/launcher-core/pkg/session/store"
	"github.com/OpenLauncherProject/launcher-core/pkg/sysid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// reconnectDelay is the fixed wait between profile sync retries.
	reconnectDelay = 5 * time.Second

	// launchGracePeriod is how long after a successful process start
	// the launch is declared succeeded to presentation. Absorbs
	// processes that crash immediately on startup; does not delay the
	// process itself.
	launchGracePeriod = 5 * time.Second

	// notificationBufferSize gives headroom for bursts of progress
	// events during a file sync without dropping user-facing events.
	notificationBufferSize = 128
)

// tokenSetter is implemented by clients that attach a bearer token to
// their requests (e.g. the HTTP client). Optional.
type tokenSetter interface {
	SetAccessToken(token string)
}

// Controller is the single authority for authentication state, the
// profile catalog and launch orchestration.
//
// LOCKING RULES: mu protects all mutable fields. Never send to the
// notification channel or call collaborators while holding the lock:
// lock, mutate, copy what the notification needs, unlock, notify.
type Controller struct {
	client        remote.Client
	store         *store.Store
	system        sysid.Identity
	loc           locale.Provider
	pipeline      *launcher.Pipeline
	supervisor    *launcher.Supervisor
	history       *sessiondb.SessionDB
	clock         clockwork.Clock
	ns            chan<- models.Notification
	ctx           context.Context
	cancel        context.CancelFunc
	profiles      []remote.Profile
	selected      string
	session       Session
	state         State
	mu            syncutil.RWMutex
	launching     bool
	syncing       bool
	presenceReady bool
}

// Options carries the controller's collaborators. History may be nil
// to disable launch history recording.
type Options struct {
	Client  remote.Client
	Store   *store.Store
	System  sysid.Identity
	Locale  locale.Provider
	History *sessiondb.SessionDB
	Clock   clockwork.Clock
}

// NewController wires a controller and returns the notification stream
// presentation subscribes to.
func NewController(opts Options) (*Controller, <-chan models.Notification) {
	ns := make(chan models.Notification, notificationBufferSize)
	ctx, cancel := context.WithCancel(context.Background())

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	loc := opts.Locale
	if loc == nil {
		loc = locale.English
	}

	c := &Controller{
		client:     opts.Client,
		store:      opts.Store,
		system:     opts.System,
		loc:        loc,
		pipeline:   launcher.NewPipeline(opts.Client, opts.System),
		supervisor: launcher.NewSupervisor(),
		history:    opts.History,
		clock:      clock,
		ns:         ns,
		ctx:        ctx,
		cancel:     cancel,
		state:      StateUnauthenticated,
	}

	return c, ns
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// User returns the authenticated user identity, or zero value.
func (c *Controller) User() remote.UserIdentity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.User
}

// Profiles returns a copy of the current profile catalog.
func (c *Controller) Profiles() []remote.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]remote.Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Selected returns the selected profile and whether one is selected.
func (c *Controller) Selected() (remote.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedLocked()
}

func (c *Controller) selectedLocked() (remote.Profile, bool) {
	if c.selected == "" {
		return remote.Profile{}, false
	}
	for _, p := range c.profiles {
		if p.Name == c.selected {
			return p, true
		}
	}
	return remote.Profile{}, false
}

// IsLaunching reports whether a launch pipeline is in flight or a game
// process is running.
func (c *Controller) IsLaunching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.launching
}

// setToken pushes the access token into the client when it supports it.
func (c *Controller) setToken(token string) {
	if ts, ok := c.client.(tokenSetter); ok {
		ts.SetAccessToken(token)
	}
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	userName := c.session.User.Name
	c.mu.Unlock()

	notifications.AuthState(c.ns, models.AuthStateParams{
		State:    string(state),
		UserName: userName,
	})
}

// RestoreSession reads the persisted session and transitions to
// Authenticated or Unauthenticated accordingly. A valid session also
// triggers a background profile sync.
func (c *Controller) RestoreSession() {
	sess, found, err := store.Get[Session](c.store, store.KeyUser)
	if err != nil {
		log.Error().Err(err).Msg("failed to read persisted session")
	}

	if !found || !sess.Valid() {
		c.setState(StateUnauthenticated)
		return
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	c.setToken(sess.User.AccessToken)
	c.setState(StateAuthenticated)
	c.triggerProfileSync()
}

// Authenticate exchanges credentials for a session. Validation
// rejections surface as events and leave state unchanged; transient
// network failures surface once and may be retried by the user.
func (c *Controller) Authenticate(ctx context.Context, login, password string) error {
	result, err := c.client.Authenticate(ctx, login, password, c.system.HardwareID())
	if err != nil {
		if remote.IsTransient(err) {
			notifications.Error(c.ns,
				c.loc.GetString(locale.KeyLostConnection),
				err.Error(),
			)
			return fmt.Errorf("authentication failed: %w", err)
		}
		notifications.Error(c.ns, c.loc.GetString(locale.KeyError), err.Error())
		return fmt.Errorf("authentication failed: %w", err)
	}

	switch {
	case result.User.IsAuthenticated:
		sess := Session{User: result.User, IsAuthenticated: true}
		if err := store.Put(c.store, store.KeyUser, sess); err != nil {
			log.Error().Err(err).Msg("failed to persist session")
		}

		c.mu.Lock()
		c.session = sess
		c.mu.Unlock()

		c.setToken(result.User.AccessToken)
		notifications.ValidationErrors(c.ns, nil)
		c.setState(StateAuthenticated)
		c.triggerProfileSync()

	case result.HasSecondFactor:
		// Terminal for now: the second step is not implemented.
		c.setState(StatePendingSecondFactor)

	case len(result.Details) > 0:
		notifications.ValidationErrors(c.ns, result.Details)

	default:
		notifications.Error(c.ns,
			c.loc.GetString(locale.KeyInvalidCredentials),
			result.Message,
		)
	}

	return nil
}

// Logout persists an empty session and discards the profile catalog.
func (c *Controller) Logout() {
	if err := store.Put(c.store, store.KeyUser, Session{}); err != nil {
		log.Error().Err(err).Msg("failed to persist empty session")
	}

	c.mu.Lock()
	c.session = Session{}
	c.profiles = nil
	c.selected = ""
	c.mu.Unlock()

	c.setToken("")
	c.setState(StateUnauthenticated)
	notifications.ProfilesChanged(c.ns, models.ProfilesParams{Names: nil})
	notifications.SelectionChanged(c.ns, models.SelectionParams{})
}

// triggerProfileSync starts a background SyncProfiles unless one is
// already running.
func (c *Controller) triggerProfileSync() {
	c.mu.Lock()
	if c.syncing {
		c.mu.Unlock()
		return
	}
	c.syncing = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.syncing = false
			c.mu.Unlock()
		}()
		if err := c.SyncProfiles(c.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("profile sync failed")
		}
	}()
}

// SyncProfiles fetches the profile catalog, retrying transient
// failures every reconnectDelay until success or ctx cancellation.
// This is the only operation with an automatic retry policy.
func (c *Controller) SyncProfiles(ctx context.Context) error {
	for {
		profiles, err := c.client.ListProfiles(ctx)
		if err == nil {
			c.applyProfiles(profiles)
			c.initPresence(ctx)
			return nil
		}

		if !remote.IsTransient(err) {
			notifications.Error(c.ns, c.loc.GetString(locale.KeyError), err.Error())
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		log.Warn().Err(err).Msg("profile sync lost connection, will retry")
		notifications.Reconnecting(c.ns)

		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck // context error is the contract
		case <-c.clock.After(reconnectDelay):
		}
	}
}

// applyProfiles atomically replaces the catalog and re-resolves the
// selection: the current selection wins if its name survived, then the
// persisted last-selected name, then the first entry, then none.
func (c *Controller) applyProfiles(profiles []remote.Profile) {
	lastName, _, err := store.Get[string](c.store, store.KeyLastProfile)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read last selected profile")
	}

	names := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		names[p.Name] = struct{}{}
	}

	c.mu.Lock()
	c.profiles = profiles

	switch {
	case c.selected != "" && contains(names, c.selected):
		// keep current selection
	case lastName != "" && contains(names, lastName):
		c.selected = lastName
	case len(profiles) > 0:
		c.selected = profiles[0].Name
	default:
		c.selected = ""
	}
	selected := c.selected

	nameList := make([]string, len(profiles))
	for i, p := range profiles {
		nameList[i] = p.Name
	}
	c.mu.Unlock()

	notifications.ProfilesChanged(c.ns, models.ProfilesParams{Names: nameList})
	notifications.SelectionChanged(c.ns, models.SelectionParams{Name: selected})
}

func contains(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

// initPresence loads the presence relay once per session and resets
// the presence text. Failures never block the session.
func (c *Controller) initPresence(ctx context.Context) {
	c.mu.Lock()
	ready := c.presenceReady
	c.presenceReady = true
	c.mu.Unlock()
	if ready {
		return
	}

	if err := c.client.LoadPresenceIntegration(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load presence integration")
		return
	}
	if err := c.client.UpdatePresence(ctx, c.loc.GetString(locale.KeyPresenceIdle)); err != nil {
		log.Warn().Err(err).Msg("failed to update presence")
	}
}

// SelectProfile updates the selection. The selection is persisted
// unless name is empty (clearing the selection keeps the last
// persisted name, matching restore-on-restart behavior).
func (c *Controller) SelectProfile(name string) {
	c.mu.Lock()
	if name != "" {
		found := false
		for _, p := range c.profiles {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			c.mu.Unlock()
			log.Warn().Str("profile", name).Msg("cannot select unknown profile")
			return
		}
	}
	c.selected = name
	c.mu.Unlock()

	if name != "" {
		if err := store.Put(c.store, store.KeyLastProfile, name); err != nil {
			log.Error().Err(err).Msg("failed to persist selected profile")
		}
	}

	notifications.SelectionChanged(c.ns, models.SelectionParams{Name: name})
}

// Close tears the session down: any live game process is killed
// immediately and background work is cancelled. Invoked by the hosting
// shell on shutdown.
func (c *Controller) Close() {
	c.cancel()
	c.supervisor.Shutdown()
}
