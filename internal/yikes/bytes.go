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

// Package yikes contains the absolute worst code of the module. Nothing
// in here is safe, nothing in here is portable, everything in here is
// upsetting. It exists for exactly one reason: the i/o boundary with the
// native driver libraries, where a C owned transfer buffer must be read
// and written in place from Go.
package yikes

import (
	"unsafe"
)

// GoBytes works like C.GoBytes, but it allows for mutating the C byte array
// from Go. This is wildly unsafe, and something that needs to be very carefully
// applied to problems, but is generally going to be used at i/o boundaries,
// specifically on the tx paths.
func GoBytes(base uintptr, size int) []byte {
	var b = struct {
		base uintptr
		len  int
		cap  int
	}{base, size, size}
	return *(*[]byte)(unsafe.Pointer(&b))
}

// vim: foldmethod=marker
