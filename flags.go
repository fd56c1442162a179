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

// Direction names one half of a transceiver. The numeric values are fixed
// by the device argument markup and must not change.
type Direction uint8

const (
	// DirectionTx is the transmit half of a device.
	DirectionTx Direction = 0

	// DirectionRx is the receive half of a device.
	DirectionRx Direction = 1
)

// String returns the conventional short name for the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionTx:
		return "TX"
	case DirectionRx:
		return "RX"
	default:
		return "unknown"
	}
}

// StreamFlags is the bitfield carried alongside stream operations, both as
// caller intent (end this burst, the time field is valid) and as results
// (the stream ended abruptly).
type StreamFlags uint32

const (
	// FlagEndBurst indicates this write (or activation) terminates a
	// bounded transmission after an exact number of samples.
	FlagEndBurst StreamFlags = 1 << 1

	// FlagHasTime indicates the time field that rode along with the
	// operation is valid.
	FlagHasTime StreamFlags = 1 << 2

	// FlagEndAbrupt indicates the stream terminated prematurely, for
	// instance after an overflow dropped samples.
	FlagEndAbrupt StreamFlags = 1 << 3

	// FlagOnePacket indicates the operation should stay within a single
	// hardware packet boundary.
	FlagOnePacket StreamFlags = 1 << 4

	// FlagMoreFragments indicates more data follows for this burst.
	FlagMoreFragments StreamFlags = 1 << 5

	// FlagWaitTrigger indicates the stream should arm and wait for a
	// hardware trigger rather than start immediately.
	FlagWaitTrigger StreamFlags = 1 << 6

	// FlagUser is the first of five flag bits reserved for use between
	// cooperating applications and drivers; bits 16 through 20 are never
	// assigned a meaning by this package.
	FlagUser StreamFlags = 1 << 16
)

// vim: foldmethod=marker
