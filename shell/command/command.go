/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package command names an executable, interactively-runnable command: a
// name, a one-line description, and a Run function writing to stdout/stderr.
// It decouples the config component registry's shell integration (list,
// start, stop, restart) from any one interactive shell implementation.
package command

import "io"

// CommandInfo is the name and description of a command, without its
// implementation - enough for a shell to list what is available.
type CommandInfo interface {
	Name() string
	Description() string
}

// Command is an executable shell command.
type Command interface {
	CommandInfo

	// Run executes the command, writing normal output to out and error
	// output to errOut. args are the words following the command name.
	Run(out io.Writer, errOut io.Writer, args []string)
}

type info struct {
	name string
	desc string
}

func (i *info) Name() string        { return i.name }
func (i *info) Description() string { return i.desc }

// Info builds a CommandInfo without a runnable implementation.
func Info(name, description string) CommandInfo {
	return &info{name: name, desc: description}
}

type cmd struct {
	info
	run func(out io.Writer, errOut io.Writer, args []string)
}

// New builds a Command with the given name, description and run function.
func New(name, description string, run func(out io.Writer, errOut io.Writer, args []string)) Command {
	return &cmd{
		info: info{name: name, desc: description},
		run:  run,
	}
}

func (c *cmd) Run(out io.Writer, errOut io.Writer, args []string) {
	if c.run != nil {
		c.run(out, errOut, args)
	}
}
