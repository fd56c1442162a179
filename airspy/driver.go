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

package airspy

import (
	"fmt"
	"strconv"

	"hz.tools/sdrplug"
)

const driverName = "airspy"

func init() {
	sdrplug.MustRegister(sdrplug.Driver{
		Name: driverName,
		Find: find,
		Make: makeDevice,
	})
}

func find(args sdrplug.Kwargs) []sdrplug.Kwargs {
	var ret []sdrplug.Kwargs
	for _, serial := range ListSerials() {
		sn := fmt.Sprintf("%016x", serial)
		if want, ok := args["serial"]; ok && want != sn {
			continue
		}
		ret = append(ret, sdrplug.Kwargs{
			"serial": sn,
			"label":  fmt.Sprintf("Airspy HF+ :: %s", sn),
		})
	}
	return ret
}

func makeDevice(args sdrplug.Kwargs) (sdrplug.Device, error) {
	var serial uint64
	if sn, ok := args["serial"]; ok {
		parsed, err := strconv.ParseUint(sn, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("airspy: bad serial %q", sn)
		}
		serial = parsed
	}
	return openBySerial(serial)
}

// vim: foldmethod=marker
