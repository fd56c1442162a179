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

// Package hackrf binds the Great Scott Gadgets HackRF family into the
// sdrplug device model through libhackrf.
package hackrf

// #cgo linux LDFLAGS: -lhackrf
// #cgo pkg-config: libhackrf
//
// #include <stdlib.h>
// #include <libhackrf/hackrf.h>
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/charmbracelet/log"

	"hz.tools/sdrplug"
)

var logger = log.WithPrefix("hackrf")

// session reference counts libhackrf's process global init/exit: the first
// open device inits the library, the last closed device exits it.
var session = sdrplug.NewSession(
	func() error { return rvToErr(C.hackrf_init()) },
	func() error { return rvToErr(C.hackrf_exit()) },
)

func rvToErr(rv C.int) error {
	if rv != 0 {
		errString := C.GoString(C.hackrf_error_name(int32(rv)))
		return fmt.Errorf("hackrf: %s (code: %d)", errString, int32(rv))
	}
	return nil
}

// Board represents the type of HackRf hardware.
type Board uint32

var (
	// BoardInvalid indicates the board that relates to the request is invalid.
	BoardInvalid Board = 0xFFFF

	// BoardJawbreaker represents a Jawbreaker, the beta test hardware platform
	// for the HackRf.
	BoardJawbreaker Board = 0x604B

	// BoardHackRfOne represents the production HackRf One.
	BoardHackRfOne Board = 0x6089
)

// String will return a human readable string representing the hardware.
func (b Board) String() string {
	switch b {
	case BoardJawbreaker:
		return "Jawbreaker"
	case BoardHackRfOne:
		return "HackRf One"
	case BoardInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// list returns the serial and board id of every HackRF on the bus. The
// session must be held.
func list() ([]string, []Board) {
	devlist := C.hackrf_device_list()
	defer C.hackrf_device_list_free(devlist)

	count := int(devlist.devicecount)
	usbBoardIds := (*[1 << 30]C.enum_hackrf_usb_board_id)(unsafe.Pointer(devlist.usb_board_ids))[:count:count]
	serials := (*[1 << 30]*C.char)(unsafe.Pointer(devlist.serial_numbers))[:count:count]

	var (
		retSerials = make([]string, count)
		retBoards  = make([]Board, count)
	)
	for i := 0; i < count; i++ {
		retSerials[i] = C.GoString(serials[i])
		retBoards[i] = Board(usbBoardIds[i])
	}
	return retSerials, retBoards
}

// open opens a HackRF by serial, or the first one found when serial is
// empty. The session must be held.
func open(serial string) (*C.hackrf_device, error) {
	var dev *C.hackrf_device
	if serial == "" {
		if err := rvToErr(C.hackrf_open(&dev)); err != nil {
			return nil, err
		}
		return dev, nil
	}
	cSerial := C.CString(serial)
	defer C.free(unsafe.Pointer(cSerial))
	if err := rvToErr(C.hackrf_open_by_serial(cSerial, &dev)); err != nil {
		return nil, err
	}
	return dev, nil
}

// vim: foldmethod=marker
