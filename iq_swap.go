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

// SwapIQ will exchange the real and imaginary components of every sample,
// in place. Some hardware interleaves Q before I; swapping on the way in or
// out of the device is equivalent to mirroring the spectrum.
func SwapIQ(s Samples) error {
	switch s := s.(type) {
	case SamplesU8:
		for i := range s {
			s[i][0], s[i][1] = s[i][1], s[i][0]
		}
	case SamplesI8:
		for i := range s {
			s[i][0], s[i][1] = s[i][1], s[i][0]
		}
	case SamplesI16:
		for i := range s {
			s[i][0], s[i][1] = s[i][1], s[i][0]
		}
	case SamplesC64:
		for i := range s {
			s[i] = complex(imag(s[i]), real(s[i]))
		}
	case SamplesC128:
		for i := range s {
			s[i] = complex(imag(s[i]), real(s[i]))
		}
	default:
		return ErrSampleFormatUnknown
	}
	return nil
}

// vim: foldmethod=marker
