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
	"sync"
)

// Session is the process-wide, reference counted lifecycle of one native
// driver library: the first acquirer runs the library's global init, the
// last releaser runs its exit. Devices hold the session for as long as
// their native handle is open, so init/exit pair up exactly once per
// process epoch, no matter how many devices come and go.
//
// Acquiring again after the last release re-runs init; a library that
// can't handle that shouldn't provide an exit hook.
type Session struct {
	mu   sync.Mutex
	refs int

	init func() error
	exit func() error
}

// NewSession builds a Session over the library's global init and exit
// hooks. Either hook may be nil for libraries without that half.
func NewSession(init, exit func() error) *Session {
	return &Session{
		init: init,
		exit: exit,
	}
}

// Acquire takes a reference on the library, running its global init if
// this is the first. On error no reference is held.
func (s *Session) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 && s.init != nil {
		if err := s.init(); err != nil {
			return err
		}
	}
	s.refs++
	return nil
}

// Release drops a reference on the library, running its global exit if
// this was the last.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return nil
	}
	s.refs--
	if s.refs == 0 && s.exit != nil {
		return s.exit()
	}
	return nil
}

// vim: foldmethod=marker
