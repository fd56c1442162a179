// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2021
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package sdrplug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

func TestRegisterValidation(t *testing.T) {
	assert.Error(t, sdrplug.Register(sdrplug.Driver{}))
	assert.Error(t, sdrplug.Register(sdrplug.Driver{Name: "incomplete"}))
}

func TestRegisterDuplicate(t *testing.T) {
	drv := sdrplug.Driver{
		Name: "dupe",
		Find: func(sdrplug.Kwargs) []sdrplug.Kwargs { return nil },
		Make: func(sdrplug.Kwargs) (sdrplug.Device, error) {
			return nil, sdrplug.ErrNotSupported
		},
	}
	require.NoError(t, sdrplug.Register(drv))
	assert.Error(t, sdrplug.Register(drv))
}

func TestDriversOrdered(t *testing.T) {
	names := []string{}
	for _, drv := range sdrplug.Drivers() {
		names = append(names, drv.Name)
	}
	assert.Contains(t, names, "bench")

	// The returned slice is a copy; clobbering it must not touch the
	// registry.
	drivers := sdrplug.Drivers()
	if len(drivers) > 0 {
		drivers[0].Name = "clobbered"
	}
	assert.NotContains(t, func() []string {
		names := []string{}
		for _, drv := range sdrplug.Drivers() {
			names = append(names, drv.Name)
		}
		return names
	}(), "clobbered")
}

func TestModuleSearchPath(t *testing.T) {
	t.Setenv("SDRPLUG_MODULE_PATH", "/opt/radio:/usr/lib/radio")
	assert.Equal(t, []string{"/opt/radio", "/usr/lib/radio"}, sdrplug.ModuleSearchPath())

	t.Setenv("SDRPLUG_MODULE_PATH", "")
	assert.Equal(t, []string{".", "./Modules"}, sdrplug.ModuleSearchPath())
}

func TestLoadModulesFromEmptyDir(t *testing.T) {
	// No modules around is not an error; the scan just finds nothing.
	sdrplug.LoadModulesFromDir(t.TempDir())
}

// vim: foldmethod=marker
