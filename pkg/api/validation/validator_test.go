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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type launchParams struct {
	ProfileName string `validate:"required,profilename"`
	RAMSizeMB   int    `validate:"gte=512,lte=262144"`
}

func TestValidateAccepts(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate(&launchParams{ProfileName: "Survival 1.20", RAMSizeMB: 4096})
	require.NoError(t, err)
}

func TestProfileNameRejectsSeparators(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	for _, name := range []string{"", "../escape", `mods\evil`, "a/b"} {
		err := v.Validate(&launchParams{ProfileName: name, RAMSizeMB: 4096})
		assert.Error(t, err, "profile name %q should be rejected", name)
	}
}

func TestValidateFormatsMessages(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate(&launchParams{ProfileName: "Survival", RAMSizeMB: 128})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "RAMSizeMB", verr.Fields[0].Field)
	assert.Equal(t, []string{"ramsizemb must be greater than or equal to 512"}, verr.Messages())
}

func TestValidateCollectsAllFields(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate(&launchParams{ProfileName: "", RAMSizeMB: 999999999})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
