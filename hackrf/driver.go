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

package hackrf

import (
	"fmt"

	"hz.tools/sdrplug"
)

const driverName = "hackrf"

func init() {
	sdrplug.MustRegister(sdrplug.Driver{
		Name: driverName,
		Find: find,
		Make: makeDevice,
	})
}

func find(args sdrplug.Kwargs) []sdrplug.Kwargs {
	if err := session.Acquire(); err != nil {
		logger.Error("library init failed", "err", err)
		return nil
	}
	defer session.Release()

	serials, boards := list()

	var ret []sdrplug.Kwargs
	for i := range serials {
		if want, ok := args["serial"]; ok && want != serials[i] {
			continue
		}
		ret = append(ret, sdrplug.Kwargs{
			"serial": serials[i],
			"device": boards[i].String(),
			"label":  fmt.Sprintf("%s :: %s", boards[i], serials[i]),
		})
	}
	return ret
}

func makeDevice(args sdrplug.Kwargs) (sdrplug.Device, error) {
	if err := session.Acquire(); err != nil {
		return nil, err
	}

	var (
		serial = args["serial"]
		board  = BoardInvalid
	)
	serials, boards := list()
	for i := range serials {
		if serial == "" || serial == serials[i] {
			serial = serials[i]
			board = boards[i]
			break
		}
	}

	dev, err := open(serial)
	if err != nil {
		session.Release()
		return nil, err
	}
	return newSdr(dev, serial, board), nil
}

// vim: foldmethod=marker
