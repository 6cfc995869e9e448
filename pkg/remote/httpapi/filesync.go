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

package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentDownloads bounds parallel file downloads per sync.
const maxConcurrentDownloads = 4

// profileDir returns the local directory a manifest's files live in.
func (c *Client) profileDir(manifest *remote.Manifest) string {
	return filepath.Join(c.profilesDir, manifest.ProfileName)
}

// SyncFiles implements remote.Client. It reconciles the profile
// directory against the manifest: every entry whose local hash is
// missing or mismatched is downloaded again. Progress is reported as
// completed bytes over total bytes to sync.
func (c *Client) SyncFiles(ctx context.Context, manifest *remote.Manifest, onProgress remote.ProgressFunc) error {
	if manifest == nil {
		return errors.New("manifest is nil")
	}
	if onProgress == nil {
		onProgress = func(int) {}
	}

	dir := c.profileDir(manifest)
	if err := c.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	var pending []remote.FileEntry
	var totalBytes int64
	for _, entry := range manifest.Files {
		ok, err := c.verifyLocal(dir, entry)
		if err != nil {
			return err
		}
		if !ok {
			pending = append(pending, entry)
			totalBytes += entry.Size
		}
	}

	log.Info().
		Str("profile", manifest.ProfileName).
		Int("total", len(manifest.Files)).
		Int("pending", len(pending)).
		Msg("file integrity sync")

	onProgress(0)
	if len(pending) == 0 {
		onProgress(100)
		return nil
	}

	var doneBytes atomic.Int64
	report := func(n int64) {
		done := doneBytes.Add(n)
		if totalBytes <= 0 {
			return
		}
		percent := int(done * 100 / totalBytes)
		if percent > 100 {
			percent = 100
		}
		onProgress(percent)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDownloads)
	for _, entry := range pending {
		entry := entry
		group.Go(func() error {
			if err := c.downloadFile(groupCtx, dir, entry); err != nil {
				return err
			}
			report(entry.Size)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err //nolint:wrapcheck // download errors carry their own context
	}

	onProgress(100)
	return nil
}

// verifyLocal reports whether the local copy of entry exists with a
// matching hash.
func (c *Client) verifyLocal(dir string, entry remote.FileEntry) (bool, error) {
	path := filepath.Join(dir, filepath.FromSlash(entry.Path))

	f, err := c.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open %s: %w", entry.Path, err)
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", entry.Path, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	return strings.EqualFold(sum, entry.SHA256), nil
}

// downloadFile fetches one manifest entry into the profile directory.
// Files are written to a temp name and renamed so an interrupted
// download never masquerades as a verified file.
func (c *Client) downloadFile(ctx context.Context, dir string, entry remote.FileEntry) error {
	target := filepath.Join(dir, filepath.FromSlash(entry.Path))
	if err := c.fs.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", entry.Path, err)
	}

	fileURL := entry.URL
	if !strings.Contains(fileURL, "://") {
		fileURL = c.endpoint("/" + strings.TrimPrefix(fileURL, "/"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request for %s: %w", entry.Path, err)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w: %w", entry.Path, remote.ErrTransient, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close download body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("download %s: %w: status %d", entry.Path, remote.ErrTransient, resp.StatusCode)
		}
		return fmt.Errorf("download %s: unexpected status %d", entry.Path, resp.StatusCode)
	}

	tmp := target + ".part"
	out, err := c.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", entry.Path, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = c.fs.Remove(tmp)
		return fmt.Errorf("download %s: %w: %w", entry.Path, remote.ErrTransient, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", entry.Path, err)
	}

	if err := c.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", entry.Path, err)
	}

	return nil
}

// BuildLaunchDescriptor implements remote.Client. The manifest's
// executable and arguments are resolved against the local profile
// directory.
func (c *Client) BuildLaunchDescriptor(_ context.Context, manifest *remote.Manifest) (remote.LaunchDescriptor, error) {
	if manifest == nil {
		return remote.LaunchDescriptor{}, errors.New("manifest is nil")
	}
	if manifest.Executable == "" {
		return remote.LaunchDescriptor{}, fmt.Errorf("profile %s: %w", manifest.ProfileName, remote.ErrProfileUnavailable)
	}

	dir := c.profileDir(manifest)
	execPath := filepath.Join(dir, filepath.FromSlash(manifest.Executable))

	if _, err := c.fs.Stat(execPath); err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("executable %s missing after sync: %w", manifest.Executable, err)
	}

	args := make([]string, len(manifest.Arguments))
	copy(args, manifest.Arguments)

	return remote.LaunchDescriptor{
		Exec: execPath,
		Args: args,
		Dir:  dir,
	}, nil
}

// CleanupStaleFiles implements remote.Client. Files under the profile
// directory that the manifest no longer references are removed.
// Best-effort: individual failures are logged and skipped.
func (c *Client) CleanupStaleFiles(_ context.Context, manifest *remote.Manifest) error {
	if manifest == nil {
		return errors.New("manifest is nil")
	}

	dir := c.profileDir(manifest)
	wanted := make(map[string]struct{}, len(manifest.Files)+1)
	for _, entry := range manifest.Files {
		wanted[filepath.Join(dir, filepath.FromSlash(entry.Path))] = struct{}{}
	}
	// The executable is not always listed among the file entries.
	if manifest.Executable != "" {
		wanted[filepath.Join(dir, filepath.FromSlash(manifest.Executable))] = struct{}{}
	}

	err := afero.Walk(c.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := wanted[path]; ok {
			return nil
		}
		if removeErr := c.fs.Remove(path); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", path).Msg("failed to remove stale file")
		} else {
			log.Debug().Str("path", path).Msg("removed stale file")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk profile directory: %w", err)
	}

	return nil
}
