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
	"sync"
)

var (
	// ErrNoDriver will be returned by Make when no driver was named and
	// discovery could not settle on one.
	ErrNoDriver error = fmt.Errorf("sdrplug: no driver specified and no device was discovered")

	// ErrNotMade will be returned by Unmake for a device the factory has
	// no record of.
	ErrNotMade error = fmt.Errorf("sdrplug: device was not made by this factory")
)

var (
	factoryMu    sync.Mutex
	factoryTable = map[string]Device{}
	factoryRefs  = map[Device]int{}
)

// Enumerate runs every registered driver's discovery hook in parallel and
// concatenates the results, each tagged with its driver's name. A "driver"
// key in args narrows the sweep to that driver. One driver failing (or
// panicking) is logged and does not stop the others.
func Enumerate(args Kwargs) []Kwargs {
	var (
		drivers = Drivers()
		results = make([][]Kwargs, len(drivers))
		wg      sync.WaitGroup
		filter  = args["driver"]
	)

	for i, drv := range drivers {
		if filter != "" && filter != drv.Name {
			continue
		}
		wg.Add(1)
		go func(i int, drv Driver) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("driver discovery panicked", "driver", drv.Name, "panic", r)
				}
			}()
			results[i] = drv.Find(args)
		}(i, drv)
	}
	wg.Wait()

	var ret []Kwargs
	for i, found := range results {
		for _, kw := range found {
			kw = kw.Copy()
			kw["driver"] = drivers[i].Name
			ret = append(ret, kw)
		}
	}
	return ret
}

// Make opens (or shares) a device matching args.
//
// Instances are deduplicated on the serialized form of their discovered
// arguments, so a caller asking for "driver=hackrf" and a caller asking
// for "driver=hackrf, serial=..." land on the same reference counted
// device. The factory lock is dropped while the driver constructs, so
// other Make calls are not stuck behind USB I/O.
func Make(args Kwargs) (Device, error) {
	key := args.String()

	factoryMu.Lock()
	if dev, ok := factoryTable[key]; ok {
		factoryRefs[dev]++
		factoryMu.Unlock()
		return dev, nil
	}
	factoryMu.Unlock()

	discovered := args
	if results := Enumerate(args); len(results) > 0 {
		discovered = results[0]
	}
	discoveredKey := discovered.String()

	factoryMu.Lock()
	if dev, ok := factoryTable[discoveredKey]; ok {
		factoryRefs[dev]++
		factoryMu.Unlock()
		return dev, nil
	}

	// Discovered keys win; caller-supplied keys fill the gaps.
	merged := discovered.Copy()
	for k, v := range args {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	name := merged["driver"]
	if name == "" {
		if len(registryNames()) == 1 && registryNames()[0] == "null" {
			name = "null"
		} else {
			factoryMu.Unlock()
			return nil, ErrNoDriver
		}
	}
	drv, ok := lookupDriver(name)
	if !ok {
		factoryMu.Unlock()
		return nil, fmt.Errorf("sdrplug: driver %q is not registered", name)
	}

	factoryMu.Unlock()
	dev, err := drv.Make(merged)
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("sdrplug: %s: %w", name, err)
	}

	// Somebody else may have constructed the same unit while the lock
	// was down; keep theirs, fold our reference into it.
	if prior, ok := factoryTable[discoveredKey]; ok {
		factoryRefs[prior]++
		go func() {
			if err := dev.Close(); err != nil {
				logger.Warn("closing duplicate device", "driver", name, "err", err)
			}
		}()
		return prior, nil
	}

	factoryTable[discoveredKey] = dev
	factoryRefs[dev] = 1
	return dev, nil
}

// MakeFromMarkup is Make over the "k=v, k=v" markup form.
func MakeFromMarkup(markup string) (Device, error) {
	return Make(ParseKwargs(markup))
}

// registryNames returns the registered driver names, in order.
func registryNames() []string {
	drivers := Drivers()
	names := make([]string, len(drivers))
	for i, drv := range drivers {
		names[i] = drv.Name
	}
	return names
}

// Unmake drops a reference on a device made by Make. The last reference
// closes the device and forgets every key pointing at it; the factory lock
// is dropped while the driver disposes.
func Unmake(dev Device) error {
	factoryMu.Lock()

	refs, ok := factoryRefs[dev]
	if !ok {
		factoryMu.Unlock()
		return ErrNotMade
	}
	if refs > 1 {
		factoryRefs[dev] = refs - 1
		factoryMu.Unlock()
		return nil
	}

	delete(factoryRefs, dev)
	for key, have := range factoryTable {
		if have == dev {
			delete(factoryTable, key)
		}
	}

	factoryMu.Unlock()
	return dev.Close()
}

// vim: foldmethod=marker
