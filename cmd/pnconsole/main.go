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

// pnconsole is the interactive demo console: a numbered menu driving
// publish/subscribe/history/presence transactions against the demo
// keys (or the keys found in the PUBNUB_* environment). It opens two
// clients on the same keys - one dedicated to the subscribe long poll,
// one for every other operation - and is a plain consumer of the
// public client API.
package main

import (
	"context"
	"fmt"
	"os"

	libcsl "github.com/nabbar/pubnub-go/console"
	libapi "github.com/nabbar/pubnub-go/pnapi"
	libcfg "github.com/nabbar/pubnub-go/pnconfig"

	spfcbr "github.com/spf13/cobra"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func buildConfig() libcfg.Config {
	cfg := libcfg.Default()
	cfg.PublishKey = envOr("PUBNUB_PUBLISH_KEY", "demo")
	cfg.SubscribeKey = envOr("PUBNUB_SUBSCRIBE_KEY", "demo")
	cfg.SecretKey = os.Getenv("PUBNUB_SECRET_KEY")
	cfg.Origin = envOr("PUBNUB_ORIGIN", "ps.pndsn.com")
	cfg.UserID = envOr("PUBNUB_USER_ID", "pnconsole")
	cfg.Blocking = true

	return cfg
}

func main() {
	rootCmd := &spfcbr.Command{
		Use:   "pnconsole",
		Short: "interactive pub/sub demo console",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run()
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const menu = `
 1: publish          2: subscribe        3: time
 4: history          5: here now         6: where now
 7: set state        8: get state        9: heartbeat
10: add ch to group 11: rm ch from group 12: list group
13: rm group        14: leave            15: global here now
 0: quit
`

func run() error {
	env := libapi.NewEnvironment(context.Background(), nil)
	defer env.Stop()

	ops, err := env.NewClient(buildConfig())
	if err != nil {
		return err
	}

	sub, err := env.NewClient(buildConfig())
	if err != nil {
		return err
	}

	for {
		libcsl.ColorPrint.Println(menu)

		choice, e := libcsl.PromptInt("enter the operation number")
		if e != nil {
			return e
		}

		if choice == 0 {
			return nil
		}

		runOp(ops, sub, choice)
	}
}

func runOp(ops, sub *libapi.Client, choice int64) {
	ctx := context.Background()

	report := func(what string) {
		o, status, _ := ops.LastResult()
		libcsl.ColorPrint.PrintLnf("%s: outcome=%s http=%d", what, o, status)

		if msg := ops.ErrorMessage(); msg != "" {
			libcsl.ColorPrint.PrintLnf("server message: %s", msg)
		}
	}

	switch choice {
	case 1:
		ch, _ := libcsl.PromptString("channel")
		msg, _ := libcsl.PromptString("message (raw json)")
		_, _ = ops.Publish(ctx, ch, []byte(msg))
		report("publish")
		libcsl.ColorPrint.Println(ops.LastPublishResult())

	case 2:
		ch, _ := libcsl.PromptString("channels (comma separated)")
		gr, _ := libcsl.PromptString("channel groups (empty for none)")
		if o, _ := sub.Subscribe(ctx, ch, gr); o.Terminal() {
			for {
				m, ok := sub.NextMessage()
				if !ok {
					break
				}
				libcsl.ColorPrint.PrintLnf("[%s] %s", m.Channel, m.Payload)
			}
		}
		so, st, _ := sub.LastResult()
		libcsl.ColorPrint.PrintLnf("subscribe: outcome=%s http=%d", so, st)

	case 3:
		_, _ = ops.Time(ctx)
		report("time")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 4:
		ch, _ := libcsl.PromptString("channel")
		n, _ := libcsl.PromptInt("count")
		_, _ = ops.History(ctx, ch, int(n))
		report("history")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 5:
		ch, _ := libcsl.PromptString("channel")
		_, _ = ops.HereNow(ctx, ch, "")
		report("here now")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 6:
		id, _ := libcsl.PromptString("user id (empty for own)")
		_, _ = ops.WhereNow(ctx, id)
		report("where now")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 7:
		ch, _ := libcsl.PromptString("channel")
		st, _ := libcsl.PromptString("state (raw json object)")
		_, _ = ops.SetState(ctx, ch, "", []byte(st))
		report("set state")

	case 8:
		ch, _ := libcsl.PromptString("channel")
		_, _ = ops.StateGet(ctx, ch, "", "")
		report("get state")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 9:
		ch, _ := libcsl.PromptString("channels")
		gr, _ := libcsl.PromptString("groups (empty for none)")
		_, _ = ops.Heartbeat(ctx, ch, gr)
		report("heartbeat")

	case 10:
		ch, _ := libcsl.PromptString("channels")
		gr, _ := libcsl.PromptString("group")
		_, _ = ops.AddChannelsToGroup(ctx, ch, gr)
		report("add channel to group")

	case 11:
		ch, _ := libcsl.PromptString("channels")
		gr, _ := libcsl.PromptString("group")
		_, _ = ops.RemoveChannelsFromGroup(ctx, ch, gr)
		report("remove channel from group")

	case 12:
		gr, _ := libcsl.PromptString("group")
		_, _ = ops.ListChannelGroup(ctx, gr)
		report("list channel group")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	case 13:
		gr, _ := libcsl.PromptString("group")
		_, _ = ops.RemoveChannelGroup(ctx, gr)
		report("remove channel group")

	case 14:
		ch, _ := libcsl.PromptString("channels (empty for all)")
		gr, _ := libcsl.PromptString("groups (empty for none)")
		_, _ = sub.Leave(ctx, ch, gr)
		so, st, _ := sub.LastResult()
		libcsl.ColorPrint.PrintLnf("leave: outcome=%s http=%d", so, st)

	case 15:
		_, _ = ops.GlobalHereNow(ctx)
		report("global here now")
		libcsl.ColorPrint.Println(string(ops.Context().ReplyBody()))

	default:
		libcsl.ColorPrint.Println("unknown operation")
	}
}
