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
	"errors"
	"fmt"
)

var (
	// ErrNotSupported will be returned when a device does not support the
	// feature requested.
	ErrNotSupported error = fmt.Errorf("sdrplug: feature not supported by this device")

	// ErrTimeout will be returned when a blocking stream operation ran out
	// of time before any samples changed hands. The stream remains usable.
	ErrTimeout error = fmt.Errorf("sdrplug: timed out waiting on stream")

	// ErrStream will be returned when the driver reported a streaming fault
	// that could not be recovered.
	ErrStream error = fmt.Errorf("sdrplug: stream error")

	// ErrCorruption will be returned when sample data could not be
	// understood as it was handed over from the driver.
	ErrCorruption error = fmt.Errorf("sdrplug: sample data is corrupt")

	// ErrOverflow will be returned when the hardware produced samples
	// faster than the consumer drained them, and the ring dropped data.
	// The stream remains usable.
	ErrOverflow error = fmt.Errorf("sdrplug: stream overflow, samples were dropped")

	// ErrTime was requested of a device that has no hardware time support.
	ErrTime error = fmt.Errorf("sdrplug: hardware time error")

	// ErrUnderflow will be returned when the transmit side ran out of
	// queued samples and the driver sent zeros. The stream remains usable.
	ErrUnderflow error = fmt.Errorf("sdrplug: stream underflow, zeros were sent")

	// ErrStreamClosed will be returned when operating on a stream after
	// Close.
	ErrStreamClosed error = fmt.Errorf("sdrplug: stream is closed")

	// ErrStreamActive will be returned when activating a stream that is
	// already active, or deactivating one that is not.
	ErrStreamActive error = fmt.Errorf("sdrplug: stream activation state mismatch")
)

// Code is the numeric result carried on the wire for stream operations.
// The values are fixed by the device argument markup and must not change.
type Code int

const (
	// CodeNone indicates success.
	CodeNone Code = 0

	// CodeTimeout is the numeric form of ErrTimeout.
	CodeTimeout Code = -1

	// CodeStreamError is the numeric form of ErrStream.
	CodeStreamError Code = -2

	// CodeCorruption is the numeric form of ErrCorruption.
	CodeCorruption Code = -3

	// CodeOverflow is the numeric form of ErrOverflow.
	CodeOverflow Code = -4

	// CodeNotSupported is the numeric form of ErrNotSupported.
	CodeNotSupported Code = -5

	// CodeTimeError is the numeric form of ErrTime.
	CodeTimeError Code = -6

	// CodeUnderflow is the numeric form of ErrUnderflow.
	CodeUnderflow Code = -7
)

// CodeOf will return the Code matching the provided error, or
// CodeStreamError for any error this package does not recognize.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrCorruption):
		return CodeCorruption
	case errors.Is(err, ErrOverflow):
		return CodeOverflow
	case errors.Is(err, ErrNotSupported):
		return CodeNotSupported
	case errors.Is(err, ErrTime):
		return CodeTimeError
	case errors.Is(err, ErrUnderflow):
		return CodeUnderflow
	default:
		return CodeStreamError
	}
}

// Err will return the sentinel error matching this Code, or nil for
// CodeNone.
func (c Code) Err() error {
	switch c {
	case CodeNone:
		return nil
	case CodeTimeout:
		return ErrTimeout
	case CodeCorruption:
		return ErrCorruption
	case CodeOverflow:
		return ErrOverflow
	case CodeNotSupported:
		return ErrNotSupported
	case CodeTimeError:
		return ErrTime
	case CodeUnderflow:
		return ErrUnderflow
	default:
		return ErrStream
	}
}

// vim: foldmethod=marker
