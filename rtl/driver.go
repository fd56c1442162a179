// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
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

package rtl

import (
	"fmt"
	"strconv"

	"hz.tools/sdrplug"
)

const driverName = "rtlsdr"

func init() {
	sdrplug.MustRegister(sdrplug.Driver{
		Name: driverName,
		Find: find,
		Make: makeDevice,
	})
}

// deviceLabel is the label a dongle enumerates under.
func deviceLabel(product, serial string) string {
	return fmt.Sprintf("%s :: %s", product, serial)
}

func find(args sdrplug.Kwargs) []sdrplug.Kwargs {
	var ret []sdrplug.Kwargs
	for index := uint(0); index < DeviceCount(); index++ {
		manufact, product, serial, err := usbStrings(index)
		if err != nil {
			logger.Warn("usb strings unreadable", "index", index, "err", err)
			continue
		}
		if want, ok := args["serial"]; ok && want != serial {
			continue
		}

		kw := sdrplug.Kwargs{
			"index":    strconv.FormatUint(uint64(index), 10),
			"serial":   serial,
			"manufact": manufact,
			"product":  product,
			"label":    deviceLabel(product, serial),
		}

		// The tuner name takes an open; a dongle that is already busy
		// simply enumerates without one.
		if dev, err := openIndex(index); err == nil {
			kw["tuner"] = dev.tuner.String()
			if err := dev.Close(); err != nil {
				logger.Warn("close after probe failed", "index", index, "err", err)
			}
		}
		ret = append(ret, kw)
	}
	return ret
}

func makeDevice(args sdrplug.Kwargs) (sdrplug.Device, error) {
	index := uint(args.Uint("index", 0))
	if serial, ok := args["serial"]; ok && args["index"] == "" {
		found := false
		for i := uint(0); i < DeviceCount(); i++ {
			if _, _, sn, err := usbStrings(i); err == nil && sn == serial {
				index = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("rtlsdr: no device with serial %q", serial)
		}
	}
	return openIndex(index)
}

// vim: foldmethod=marker
