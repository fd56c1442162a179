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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/sdrplug"
)

// benchDevice is the device the bench driver hands out.
type benchDevice struct {
	sdrplug.UnimplementedDevice

	serial string
	closed bool
	mu     sync.Mutex
}

func (d *benchDevice) Driver() string {
	return "bench"
}

func (d *benchDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("bench: double close")
	}
	d.closed = true
	return nil
}

var benchMade int

func init() {
	// The bench driver pretends to own two units, serials 1000 and
	// 1001, and takes its time enumerating so the parallel sweep is
	// worth something.
	sdrplug.MustRegister(sdrplug.Driver{
		Name: "bench",
		Find: func(args sdrplug.Kwargs) []sdrplug.Kwargs {
			time.Sleep(time.Millisecond)
			var ret []sdrplug.Kwargs
			for _, serial := range []string{"1000", "1001"} {
				if want, ok := args["serial"]; ok && want != serial {
					continue
				}
				ret = append(ret, sdrplug.Kwargs{
					"serial": serial,
					"label":  "Bench Radio :: " + serial,
				})
			}
			return ret
		},
		Make: func(args sdrplug.Kwargs) (sdrplug.Device, error) {
			benchMade++
			return &benchDevice{serial: args["serial"]}, nil
		},
	})

	sdrplug.MustRegister(sdrplug.Driver{
		Name: "flaky",
		Find: func(args sdrplug.Kwargs) []sdrplug.Kwargs {
			panic("usb stack on fire")
		},
		Make: func(args sdrplug.Kwargs) (sdrplug.Device, error) {
			return nil, fmt.Errorf("flaky: nope")
		},
	})
}

func TestEnumerate(t *testing.T) {
	found := sdrplug.Enumerate(sdrplug.Kwargs{"driver": "bench"})
	require.Len(t, found, 2)
	assert.Equal(t, "bench", found[0]["driver"])
	assert.Equal(t, "1000", found[0]["serial"])
	assert.Equal(t, "Bench Radio :: 1001", found[1]["label"])
}

func TestEnumerateFilters(t *testing.T) {
	found := sdrplug.Enumerate(sdrplug.Kwargs{"driver": "bench", "serial": "1001"})
	require.Len(t, found, 1)
	assert.Equal(t, "1001", found[0]["serial"])
}

// TestEnumerateSurvivesFailingDriver: one driver blowing up must not take
// the sweep down with it.
func TestEnumerateSurvivesFailingDriver(t *testing.T) {
	found := sdrplug.Enumerate(sdrplug.Kwargs{})
	var serials []string
	for _, kw := range found {
		if kw["driver"] == "bench" {
			serials = append(serials, kw["serial"])
		}
	}
	assert.Len(t, serials, 2)
}

// TestMakeShares: the same args share one reference counted instance, and
// the instance survives until the last unmake.
func TestMakeShares(t *testing.T) {
	made := benchMade

	args := sdrplug.Kwargs{"driver": "bench", "serial": "1000"}
	first, err := sdrplug.Make(args)
	require.NoError(t, err)
	assert.Equal(t, made+1, benchMade)

	second, err := sdrplug.Make(args)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, made+1, benchMade)

	require.NoError(t, sdrplug.Unmake(second))
	assert.False(t, first.(*benchDevice).closed)

	require.NoError(t, sdrplug.Unmake(first))
	assert.True(t, first.(*benchDevice).closed)

	assert.Equal(t, sdrplug.ErrNotMade, sdrplug.Unmake(first))
}

// TestMakeSharesAcrossArgSpellings: a bare driver filter and the fully
// spelled out serial land on the same instance, through the discovered
// args key.
func TestMakeSharesAcrossArgSpellings(t *testing.T) {
	broad, err := sdrplug.Make(sdrplug.Kwargs{"driver": "bench"})
	require.NoError(t, err)

	precise, err := sdrplug.Make(sdrplug.Kwargs{"driver": "bench", "serial": "1000"})
	require.NoError(t, err)
	assert.Same(t, broad, precise)

	require.NoError(t, sdrplug.Unmake(broad))
	require.NoError(t, sdrplug.Unmake(precise))
	assert.True(t, broad.(*benchDevice).closed)
}

func TestMakeFromMarkup(t *testing.T) {
	dev, err := sdrplug.MakeFromMarkup("driver=bench, serial=1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", dev.(*benchDevice).serial)
	require.NoError(t, sdrplug.Unmake(dev))
}

func TestMakeUnknownDriver(t *testing.T) {
	_, err := sdrplug.Make(sdrplug.Kwargs{"driver": "betamax"})
	assert.Error(t, err)
}

func TestMakeNoDriver(t *testing.T) {
	// More than the null driver is registered here, so a driverless
	// make with nothing discovered must refuse to guess.
	_, err := sdrplug.Make(sdrplug.Kwargs{"serial": "does-not-exist"})
	assert.Equal(t, sdrplug.ErrNoDriver, err)
}

func TestMakeFailureSurfaces(t *testing.T) {
	_, err := sdrplug.Make(sdrplug.Kwargs{"driver": "flaky", "serial": "1"})
	assert.Error(t, err)
}

// vim: foldmethod=marker
