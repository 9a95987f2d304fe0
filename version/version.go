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

// Package version carries build and release metadata for a component
// (package name, description, build hash, release tag, author, license)
// and exposes it to CLI "--version" output and to the config component
// registry's startup banner.
package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	liberr "github.com/nabbar/pubnub-go/errors"
)

const dateLayout = "2006-01-02"

// Version exposes immutable build/release metadata for a binary or library.
type Version interface {
	GetPackage() string
	GetRootPackagePath() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetAppId() uint32
	GetDate() string
	GetTime() time.Time
	GetLicenseName() string
	GetLicenseBoiler(l ...License) string
	GetLicenseLegal(l ...License) string
	GetHeader() string
	GetInfo() string
	CheckGo(requiredVersion string, operator string) liberr.Error
}

type vrs struct {
	license     License
	pkg         string
	description string
	date        time.Time
	build       string
	release     string
	author      string
	prefix      string
	appId       uint32
	rootPath    string
}

// NewVersion builds a Version from raw build metadata. date is parsed with
// RFC3339/"2006-01-02" layouts; if parsing fails, the current time is used.
// ref is any value living in the root package, used only to resolve the
// package's import path via reflection.
func NewVersion(license License, pkg, description, date, build, release, author, prefix string, ref interface{}, appId uint32) Version {
	t, e := time.Parse(time.RFC3339, date)
	if e != nil {
		t, e = time.Parse(dateLayout, date)
	}
	if e != nil {
		t = time.Now()
	}

	root := ""
	if ref != nil {
		root = reflect.TypeOf(ref).PkgPath()
	}

	if pkg == "" {
		parts := strings.Split(root, "/")
		pkg = parts[len(parts)-1]
	}

	return &vrs{
		license:     license,
		pkg:         pkg,
		description: description,
		date:        t,
		build:       build,
		release:     release,
		author:      author,
		prefix:      strings.ToUpper(prefix),
		appId:       appId,
		rootPath:    root,
	}
}

func (v *vrs) GetPackage() string         { return v.pkg }
func (v *vrs) GetRootPackagePath() string { return v.rootPath }
func (v *vrs) GetDescription() string     { return v.description }
func (v *vrs) GetBuild() string           { return v.build }
func (v *vrs) GetRelease() string         { return v.release }
func (v *vrs) GetAuthor() string          { return v.author }
func (v *vrs) GetPrefix() string          { return v.prefix }
func (v *vrs) GetAppId() uint32           { return v.appId }
func (v *vrs) GetDate() string            { return v.date.Format(dateLayout) }
func (v *vrs) GetTime() time.Time         { return v.date }

func (v *vrs) GetLicenseName() string {
	return v.license.Name()
}

func (v *vrs) GetLicenseBoiler(l ...License) string {
	lic := v.license
	if len(l) > 0 {
		lic = l[0]
	}
	return lic.Boiler()
}

func (v *vrs) GetLicenseLegal(l ...License) string {
	lic := v.license
	if len(l) > 0 {
		lic = l[0]
	}
	return fmt.Sprintf("%s - Copyright (c) %s %s", lic.Name(), strconv.Itoa(v.date.Year()), v.author)
}

func (v *vrs) GetHeader() string {
	return fmt.Sprintf("%s %s (build %s) - %s", v.pkg, v.release, v.build, v.description)
}

func (v *vrs) GetInfo() string {
	return fmt.Sprintf("%s\nauthor: %s\nlicense: %s\nreleased: %s\nruntime: %s",
		v.GetHeader(), v.author, v.GetLicenseName(), v.GetDate(), runtime.Version())
}

// CheckGo verifies the running Go runtime version against a required
// version using the given comparison operator: one of
// ">=", ">", "<=", "<", "=", "~>" (pessimistic, same major).
func (v *vrs) CheckGo(requiredVersion string, operator string) liberr.Error {
	if requiredVersion == "" || operator == "" {
		return ErrorParamEmpty.Error(nil)
	}

	reqMaj, reqMin, e := splitGoVersion(requiredVersion)
	if e != nil {
		return ErrorGoVersionInit.Error(e)
	}

	runMaj, runMin, e := splitGoVersion(strings.TrimPrefix(runtime.Version(), "go"))
	if e != nil {
		return ErrorGoVersionRuntime.Error(e)
	}

	have := runMaj*1000 + runMin
	want := reqMaj*1000 + reqMin

	var ok bool
	switch operator {
	case ">=":
		ok = have >= want
	case ">":
		ok = have > want
	case "<=":
		ok = have <= want
	case "<":
		ok = have < want
	case "=", "==":
		ok = have == want
	case "~>":
		ok = runMaj == reqMaj && have >= want
	default:
		return ErrorGoVersionConstraint.Error(fmt.Errorf("unknown operator %q", operator))
	}

	if !ok {
		return ErrorGoVersionConstraint.Error(fmt.Errorf("runtime go version %s does not satisfy %s %s", runtime.Version(), operator, requiredVersion))
	}

	return nil
}

func splitGoVersion(s string) (major int, minor int, err error) {
	parts := strings.SplitN(strings.TrimPrefix(s, "go"), ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid go version %q", s)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}

	minor, err = strconv.Atoi(strings.TrimRight(parts[1], "abcdefghijklmnopqrstuvwxyz"))
	if err != nil {
		return 0, 0, err
	}

	return major, minor, nil
}
