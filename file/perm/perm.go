/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package perm gives os.FileMode a config-friendly type so file/path
// permissions can be decoded from JSON/YAML/TOML/mapstructure ("0640",
// "rw-r-----") instead of requiring raw octal literals in Go code.
package perm

import (
	"encoding/json"
	"os"
	"strconv"
)

// Perm wraps os.FileMode for configuration decoding.
type Perm os.FileMode

// Default permissions used when a config field is left unset.
const (
	DefaultFile Perm = 0644
	DefaultPath Perm = 0755
)

// FileMode returns the value as an os.FileMode.
func (p Perm) FileMode() os.FileMode {
	return os.FileMode(p)
}

// String renders the permission as a 3 or 4 digit octal string.
func (p Perm) String() string {
	return "0" + strconv.FormatUint(uint64(p), 8)
}

func (p Perm) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Perm) UnmarshalJSON(b []byte) error {
	var str string
	if e := json.Unmarshal(b, &str); e == nil {
		v, e := strconv.ParseUint(str, 8, 32)
		if e != nil {
			return e
		}
		*p = Perm(v)
		return nil
	}

	var n uint32
	if e := json.Unmarshal(b, &n); e != nil {
		return e
	}
	*p = Perm(n)
	return nil
}
