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

// Package sdrplug is a plugin-based abstraction layer over software defined
// radio front-ends. It exposes one uniform device model -- configuration
// (frequency, sample rate, gain, bandwidth, antenna, settings) plus
// bidirectional sample streaming -- while driver packages bind to the native
// USB device libraries (HackRF, RTL-SDR, Airspy) or register themselves at
// runtime as loadable modules.
//
// The root package holds the streaming engine (a lock protected ring of
// fixed size sample buffers shared between the hardware callback and the
// client read/write path), the device factory and driver registry, the
// half-duplex transceiver state machine, and the sample format codec.
//
// Drivers live in their own subpackages and register a Driver descriptor
// on load; see hz.tools/sdrplug/hackrf for the most complete example.
package sdrplug

// vim: foldmethod=marker
