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

// Package txkind enumerates the closed set of transaction kinds a Context
// can run. The kind selects both the urlfmt formatter and the parser
// invoked on body completion; it never grows at runtime.
package txkind

type Kind uint8

const (
	None Kind = iota
	Publish
	Signal
	Subscribe
	SubscribeV2
	Leave
	Time
	History
	HistoryV2
	Heartbeat
	HereNow
	GlobalHereNow
	WhereNow
	SetState
	StateGet
	AddChannelToGroup
	RemoveChannelFromGroup
	ListChannelGroup
	RemoveChannelGroup
	GrantToken
	RevokeToken
	ObjectOps
	MessageActionAdd
	MessageActionOps
)

var names = [...]string{
	"none", "publish", "signal", "subscribe", "subscribe_v2", "leave", "time",
	"history", "history_v2", "heartbeat", "here_now", "global_here_now",
	"where_now", "set_state", "state_get", "add_channel_to_group",
	"remove_channel_from_group", "list_channel_group", "remove_channel_group",
	"grant_token", "revoke_token", "object_ops", "message_action_add",
	"message_action_ops",
}

func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}

	return "unknown"
}

// RequiresBody reports whether the transaction sends a request body
// (POST/PATCH with a payload), as opposed to a bare GET/DELETE.
func (k Kind) RequiresBody() bool {
	switch k {
	case Publish, GrantToken, RevokeToken, ObjectOps, MessageActionAdd,
		MessageActionOps:
		return true
	default:
		return false
	}
}

// Method returns the HTTP method this kind is sent with.
func (k Kind) Method() string {
	switch k {
	case Publish, GrantToken, MessageActionAdd:
		return "POST"
	case ObjectOps:
		return "PATCH"
	case RevokeToken, MessageActionOps:
		return "DELETE"
	default:
		return "GET"
	}
}
