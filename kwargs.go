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
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kwargs are the key/value arguments passed around between the factory,
// drivers and devices. They ride over the wire in a "k=v, k=v" markup, and
// double as the typed settings store for devices.
type Kwargs map[string]string

// String will serialize the Kwargs into the "k=v, k=v" markup form. Keys
// are emitted in sorted order so that the same Kwargs always serialize to
// the same string; the factory keys its device table on this.
func (kw Kwargs) String() string {
	keys := make([]string, 0, len(kw))
	for key := range kw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, kw[key]))
	}
	return strings.Join(pairs, ", ")
}

// Copy returns an independent copy of the Kwargs.
func (kw Kwargs) Copy() Kwargs {
	ret := make(Kwargs, len(kw))
	for key, value := range kw {
		ret[key] = value
	}
	return ret
}

// ParseKwargs will parse the "k=v, k=v" markup form back into Kwargs.
//
// This is a tiny two state machine over the characters: commas terminate a
// pair, the first equals sign of a pair separates key from value, and
// whitespace around either is trimmed. Pairs with an empty key are
// discarded.
func ParseKwargs(markup string) Kwargs {
	const (
		inKey = iota
		inValue
	)

	var (
		ret   = Kwargs{}
		state = inKey
		key   strings.Builder
		value strings.Builder
	)

	commit := func() {
		k := strings.TrimSpace(key.String())
		v := strings.TrimSpace(value.String())
		if k != "" {
			ret[k] = v
		}
		key.Reset()
		value.Reset()
		state = inKey
	}

	for _, r := range markup {
		switch state {
		case inKey:
			switch r {
			case '=':
				state = inValue
			case ',':
				commit()
			default:
				key.WriteRune(r)
			}
		case inValue:
			switch r {
			case ',':
				commit()
			default:
				value.WriteRune(r)
			}
		}
	}
	commit()

	return ret
}

// Bool reads the named setting as a boolean, returning def when the key is
// absent or does not parse.
func (kw Kwargs) Bool(key string, def bool) bool {
	value, ok := kw[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return b
}

// Int reads the named setting as a signed integer, returning def when the
// key is absent or does not parse.
func (kw Kwargs) Int(key string, def int64) int64 {
	value, ok := kw[key]
	if !ok {
		return def
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return i
}

// Uint reads the named setting as an unsigned integer, returning def when
// the key is absent or does not parse.
func (kw Kwargs) Uint(key string, def uint64) uint64 {
	value, ok := kw[key]
	if !ok {
		return def
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return def
	}
	return u
}

// Float reads the named setting as a float, returning def when the key is
// absent or does not parse.
func (kw Kwargs) Float(key string, def float64) float64 {
	value, ok := kw[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return f
}

// Time reads the named setting as an RFC 3339 timestamp, returning def when
// the key is absent or does not parse.
func (kw Kwargs) Time(key string, def time.Time) time.Time {
	value, ok := kw[key]
	if !ok {
		return def
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return def
	}
	return t
}

// SetBool writes the named setting from a boolean.
func (kw Kwargs) SetBool(key string, value bool) {
	kw[key] = strconv.FormatBool(value)
}

// SetInt writes the named setting from a signed integer.
func (kw Kwargs) SetInt(key string, value int64) {
	kw[key] = strconv.FormatInt(value, 10)
}

// SetUint writes the named setting from an unsigned integer.
func (kw Kwargs) SetUint(key string, value uint64) {
	kw[key] = strconv.FormatUint(value, 10)
}

// SetFloat writes the named setting from a float.
func (kw Kwargs) SetFloat(key string, value float64) {
	kw[key] = strconv.FormatFloat(value, 'g', -1, 64)
}

// SetTime writes the named setting from a timestamp, in RFC 3339 form.
func (kw Kwargs) SetTime(key string, value time.Time) {
	kw[key] = value.Format(time.RFC3339Nano)
}

// vim: foldmethod=marker
