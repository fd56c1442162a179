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

package sdrplug

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"
	"sync"
)

// Driver is the descriptor a driver module registers: a name, a discovery
// hook, and a construction hook. Registration is explicit -- there is no
// reflection -- and happens once, at module load, from the driver
// package's init function.
type Driver struct {
	// Name keys the driver in device arguments ("driver=hackrf").
	Name string

	// Find probes for attached hardware, returning one Kwargs per unit
	// found. The args may narrow the probe (e.g. "serial=...").
	Find func(args Kwargs) []Kwargs

	// Make opens a device from its (discovered and merged) args.
	Make func(args Kwargs) (Device, error)
}

var (
	registryMu sync.Mutex
	registry   []Driver
)

// Register adds a driver descriptor to the registry. Each name registers
// once; a duplicate is rejected so a module loaded twice can't shadow the
// first copy.
func Register(drv Driver) error {
	if drv.Name == "" || drv.Find == nil || drv.Make == nil {
		return fmt.Errorf("sdrplug: driver descriptor is incomplete")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	for _, have := range registry {
		if have.Name == drv.Name {
			return fmt.Errorf("sdrplug: driver %q is already registered", drv.Name)
		}
	}
	registry = append(registry, drv)
	return nil
}

// MustRegister calls Register and panics on failure. Driver packages call
// this from init, where there is nobody to hand an error to.
func MustRegister(drv Driver) {
	if err := Register(drv); err != nil {
		panic(err)
	}
}

// Drivers returns the registered descriptors, in registration order.
func Drivers() []Driver {
	registryMu.Lock()
	defer registryMu.Unlock()
	return append([]Driver{}, registry...)
}

// lookupDriver finds a descriptor by name.
func lookupDriver(name string) (Driver, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, drv := range registry {
		if drv.Name == name {
			return drv, true
		}
	}
	return Driver{}, false
}

// moduleEnv, when set, overrides the module search path with a colon
// separated list of directories.
const moduleEnv = "SDRPLUG_MODULE_PATH"

// moduleGlob is the naming convention a shared artifact must match to be
// treated as a driver module.
const moduleGlob = "sdrplug-*.so"

// ModuleSearchPath returns the directories scanned for driver modules: the
// current directory and its Modules subdirectory, unless the environment
// overrides them.
func ModuleSearchPath() []string {
	if env := os.Getenv(moduleEnv); env != "" {
		return strings.Split(env, ":")
	}
	return []string{".", "./Modules"}
}

// LoadModules scans the module search path and loads every driver module
// found. Registration runs as a side effect of the load: the module's init
// functions call Register. A module that fails to load is logged and
// skipped; the scan continues.
func LoadModules() {
	for _, dir := range ModuleSearchPath() {
		LoadModulesFromDir(dir)
	}
}

// LoadModulesFromDir loads every driver module in one directory.
func LoadModulesFromDir(dir string) {
	paths, err := filepath.Glob(filepath.Join(dir, moduleGlob))
	if err != nil {
		return
	}
	for _, path := range paths {
		if _, err := plugin.Open(path); err != nil {
			logger.Warn("driver module failed to load", "path", path, "err", err)
			continue
		}
		logger.Debug("loaded driver module", "path", path)
	}
}

// vim: foldmethod=marker
