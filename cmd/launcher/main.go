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

// Command launcher runs the session core headless: it restores the
// persisted session, keeps the profile catalog in sync and prints the
// notification stream. A presentation layer embeds the same packages
// and subscribes to the same stream instead of printing it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/OpenLauncherProject/launcher-core/internal/telemetry"
	"github.com/OpenLauncherProject/launcher-core/pkg/config"
	"github.com/OpenLauncherProject/launcher-core/pkg/database/sessiondb"
	"github.com/OpenLauncherProject/launcher-core/pkg/helpers"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote/httpapi"
	"github.com/OpenLauncherProject/launcher-core/pkg/session"
	"github.com/OpenLauncherProject/launcher-core/pkg/session/store"
	"github.com/OpenLauncherProject/launcher-core/pkg/sysid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "also log to stderr")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		return nil
	}

	var logWriters []io.Writer
	if *verbose {
		logWriters = append(logWriters, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := helpers.InitLogging(helpers.DataDir(), logWriters...); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if sentryWriter, err := telemetry.Init(
		cfg.TelemetryEnabled(), cfg.TelemetryDSN(), cfg.InstallID(), config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("telemetry init failed")
	} else if sentryWriter != nil {
		logWriters = append(logWriters, sentryWriter)
		if err := helpers.InitLogging(helpers.DataDir(), logWriters...); err != nil {
			return fmt.Errorf("failed to reinit logging: %w", err)
		}
	}
	defer telemetry.Close()

	if cfg.RemoteBaseURL() == "" {
		return fmt.Errorf("remote.base_url is not set in %s", cfg.ConfigPath())
	}

	st, err := store.Open(filepath.Join(helpers.DataDir(), config.SessionDBFile))
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close session store")
		}
	}()

	history, err := sessiondb.Open(filepath.Join(helpers.DataDir(), config.HistoryDBFile))
	if err != nil {
		// History is a convenience, never a startup blocker.
		log.Warn().Err(err).Msg("failed to open launch history database")
		history = nil
	} else {
		defer func() {
			if closeErr := history.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close launch history database")
			}
		}()
	}

	client, err := httpapi.NewClient(cfg.RemoteBaseURL(), cfg.RemoteTimeout(), helpers.ProfilesDir())
	if err != nil {
		return fmt.Errorf("failed to create remote client: %w", err)
	}

	controller, events := session.NewController(session.Options{
		Client:  client,
		Store:   st,
		System:  sysid.System{},
		History: history,
	})
	defer controller.Close()

	controller.RestoreSession()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case n := <-events:
			params, _ := json.Marshal(n.Params)
			fmt.Printf("%s %s\n", n.Method, params)
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			return nil
		}
	}
}
