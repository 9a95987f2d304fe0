/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package size gives human-readable byte counts ("64K", "10MiB") a numeric
// type that can be used directly as a buffer size and decoded from
// configuration (viper/mapstructure) or JSON/YAML/TOML.
package size

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Size is a byte count with binary (1024-based) unit constants.
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = SizeUnit << 10
	SizeMega Size = SizeKilo << 10
	SizeGiga Size = SizeMega << 10
	SizeTera Size = SizeGiga << 10
	SizePeta Size = SizeTera << 10
	SizeExa  Size = SizePeta << 10

	// KiB/MiB/GiB are the conventional short aliases used at call sites.
	KiB = SizeKilo
	MiB = SizeMega
	GiB = SizeGiga
)

var suffixes = []struct {
	suffix string
	unit   Size
}{
	{"EB", SizeExa}, {"E", SizeExa},
	{"PB", SizePeta}, {"P", SizePeta},
	{"TB", SizeTera}, {"T", SizeTera},
	{"GB", SizeGiga}, {"G", SizeGiga},
	{"MB", SizeMega}, {"M", SizeMega},
	{"KB", SizeKilo}, {"K", SizeKilo},
	{"B", SizeUnit},
}

// Parse interprets a human-readable size string ("1K", "64KB", "2MiB", "512")
// as a Size value. A bare number is interpreted as bytes.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SizeNul, fmt.Errorf("size: empty value")
	}

	up := strings.ToUpper(s)
	up = strings.TrimSuffix(up, "IB")

	for _, u := range suffixes {
		if strings.HasSuffix(up, u.suffix) {
			num := strings.TrimSpace(strings.TrimSuffix(up, u.suffix))
			if num == "" {
				num = "1"
			}
			f, e := strconv.ParseFloat(num, 64)
			if e != nil {
				return SizeNul, e
			}
			return Size(f * float64(u.unit)), nil
		}
	}

	n, e := strconv.ParseUint(s, 10, 64)
	if e != nil {
		return SizeNul, e
	}
	return Size(n), nil
}

// Int64 returns the size as an int64.
func (s Size) Int64() int64 {
	return int64(s)
}

// Uint64 returns the size as a uint64.
func (s Size) Uint64() uint64 {
	return uint64(s)
}

// String renders the size using the largest binary unit that divides it
// evenly, e.g. Size(1048576).String() == "1MiB".
func (s Size) String() string {
	switch {
	case s >= SizeExa && s%SizeExa == 0:
		return fmt.Sprintf("%dEiB", s/SizeExa)
	case s >= SizePeta && s%SizePeta == 0:
		return fmt.Sprintf("%dPiB", s/SizePeta)
	case s >= SizeTera && s%SizeTera == 0:
		return fmt.Sprintf("%dTiB", s/SizeTera)
	case s >= SizeGiga && s%SizeGiga == 0:
		return fmt.Sprintf("%dGiB", s/SizeGiga)
	case s >= SizeMega && s%SizeMega == 0:
		return fmt.Sprintf("%dMiB", s/SizeMega)
	case s >= SizeKilo && s%SizeKilo == 0:
		return fmt.Sprintf("%dKiB", s/SizeKilo)
	default:
		return fmt.Sprintf("%dB", uint64(s))
	}
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Size) UnmarshalJSON(b []byte) error {
	var str string
	if e := json.Unmarshal(b, &str); e == nil {
		v, e := Parse(str)
		if e != nil {
			return e
		}
		*s = v
		return nil
	}

	var n uint64
	if e := json.Unmarshal(b, &n); e != nil {
		return e
	}
	*s = Size(n)
	return nil
}
