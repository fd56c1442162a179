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

// #cgo pkg-config: librtlsdr
//
// #include <rtl-sdr.h>
import "C"

import (
	"fmt"
	"strconv"

	"hz.tools/sdrplug"
)

// WriteSetting implements the sdrplug.Device interface. Recognized keys:
// "direct_samp" (0 off, 1 I branch, 2 Q branch), "offset_tune",
// "digital_agc", "testmode", "biastee" and "iq_swap".
func (s *Sdr) WriteSetting(key, value string) error {
	kw := sdrplug.Kwargs{key: value}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "direct_samp":
		mode, err := strconv.Atoi(value)
		if err != nil || mode < 0 || mode > 2 {
			return fmt.Errorf("rtlsdr: direct_samp must be 0, 1 or 2")
		}
		if err := rvToErr(C.rtlsdr_set_direct_sampling(s.handle, C.int(mode))); err != nil {
			return err
		}
		s.directSamp = mode
	case "offset_tune":
		on := kw.Bool(key, false)
		if err := rvToErr(C.rtlsdr_set_offset_tuning(s.handle, cBool(on))); err != nil {
			return err
		}
		s.offsetTune = on
	case "digital_agc":
		on := kw.Bool(key, false)
		if err := rvToErr(C.rtlsdr_set_agc_mode(s.handle, cBool(on))); err != nil {
			return err
		}
		s.digitalAGC = on
	case "testmode":
		on := kw.Bool(key, false)
		if err := rvToErr(C.rtlsdr_set_testmode(s.handle, cBool(on))); err != nil {
			return err
		}
		s.testMode = on
	case "biastee":
		on := kw.Bool(key, false)
		if err := rvToErr(C.rtlsdr_set_bias_tee(s.handle, cBool(on))); err != nil {
			return err
		}
		s.biasTee = on
	case "iq_swap":
		s.iqSwap.Store(kw.Bool(key, false))
	default:
		return sdrplug.ErrNotSupported
	}
	return nil
}

// ReadSetting implements the sdrplug.Device interface.
func (s *Sdr) ReadSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "direct_samp":
		return strconv.Itoa(s.directSamp), nil
	case "offset_tune":
		return strconv.FormatBool(s.offsetTune), nil
	case "digital_agc":
		return strconv.FormatBool(s.digitalAGC), nil
	case "testmode":
		return strconv.FormatBool(s.testMode), nil
	case "biastee":
		return strconv.FormatBool(s.biasTee), nil
	case "iq_swap":
		return strconv.FormatBool(s.iqSwap.Load()), nil
	default:
		return "", sdrplug.ErrNotSupported
	}
}

func cBool(on bool) C.int {
	if on {
		return 1
	}
	return 0
}

// vim: foldmethod=marker
