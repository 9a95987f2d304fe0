/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package version

// License identifies a well-known open source license used by a component's
// version metadata.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Apache_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

var licenseName = map[License]string{
	License_MIT:                      "MIT License",
	License_GNU_GPL_v3:               "GNU GENERAL PUBLIC LICENSE, Version 3",
	License_GNU_Affero_GPL_v3:        "GNU AFFERO GENERAL PUBLIC LICENSE, Version 3",
	License_GNU_Lesser_GPL_v3:        "GNU LESSER GENERAL PUBLIC LICENSE, Version 3",
	License_Mozilla_PL_v2:            "Mozilla Public License, Version 2.0",
	License_Apache_v2:                "Apache License, Version 2.0",
	License_Unlicense:                "The Unlicense",
	License_Creative_Common_Zero_v1:  "Creative Commons CC0 1.0 Universal",
	License_Creative_Common_Attribution_v4_int:            "Creative Commons Attribution 4.0 International",
	License_Creative_Common_Attribution_Share_Alike_v4_int: "Creative Commons Attribution-ShareAlike 4.0 International",
	License_SIL_Open_Font_1_1:        "SIL Open Font License 1.1",
}

// Name returns the human-readable name of the license.
func (l License) Name() string {
	if n, ok := licenseName[l]; ok {
		return n
	}

	return "Unknown License"
}

// Boiler returns a short boilerplate legal text for the license, usable to
// stamp generated source files or CLI "--license" output.
func (l License) Boiler() string {
	return l.Name() + "\n\nSee the full license text for the terms governing use, " +
		"reproduction, and distribution of this software."
}
