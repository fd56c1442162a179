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

package sdrplug

// CopySamples is the interface version of `copy`, which is type-aware.
//
// This is used when you want to copy samples between two buffers of the same
// type. This can't be used for conversion.
func CopySamples(dst, src Samples) (int, error) {
	if dst.Format() != src.Format() {
		return 0, ErrSampleFormatMismatch
	}

	switch dst := dst.(type) {
	case SamplesU8:
		src := src.(SamplesU8)
		return copy(dst, src), nil
	case SamplesI8:
		src := src.(SamplesI8)
		return copy(dst, src), nil
	case SamplesI16:
		src := src.(SamplesI16)
		return copy(dst, src), nil
	case SamplesC64:
		src := src.(SamplesC64)
		return copy(dst, src), nil
	case SamplesC128:
		src := src.(SamplesC128)
		return copy(dst, src), nil
	default:
		return 0, ErrSampleFormatUnknown
	}
}

// Copy will copy samples from the src Reader to the dst Writer.
//
// The Reader and Writer must be of the same SampleFormat. If not, that will
// return an error, and the caller should explicitly define how and where to
// convert the two formats.
func Copy(dst Writer, src Reader) (int64, error) {
	if dst.SampleFormat() != src.SampleFormat() {
		return 0, ErrSampleFormatMismatch
	}
	return copyBuffer(dst, src, nil)
}

// CopyBuffer will copy samples from the src Reader to the dst Writer
// using the provided Buffer.
func CopyBuffer(dst Writer, src Reader, buf Samples) (int64, error) {
	if dst.SampleFormat() != src.SampleFormat() {
		return 0, ErrSampleFormatMismatch
	}
	if dst.SampleFormat() != buf.Format() {
		return 0, ErrSampleFormatMismatch
	}
	return copyBuffer(dst, src, buf)
}

// copyBuffer will copy data from the src into the dst, using the buffer `buf`
// to move the data. If buf is nil, the size will be 1024*32.
func copyBuffer(dst Writer, src Reader, buf Samples) (int64, error) {
	if buf == nil {
		var err error
		buf, err = MakeSamples(src.SampleFormat(), 1024*32)
		if err != nil {
			return 0, err
		}
	}

	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			i, werr := dst.Write(buf.Slice(0, n))
			written += int64(i)
			if werr != nil {
				return written, werr
			}
			if i != n {
				return written, ErrShortBuffer
			}
		}
		if err != nil {
			return written, err
		}
	}
}

// vim: foldmethod=marker
