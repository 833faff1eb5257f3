package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/Lundis/go-gamesound/audio"
	"github.com/fatih/color"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	blue    = color.New(color.FgHiBlue).SprintFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
)

// interactive plays samples from the keyboard until Escape or Ctrl-C.
func interactive(e *audio.Engine, ids []audio.SampleID) {
	fmt.Print(describe(e, ids))
	fmt.Println(blue("keys:"), "1-9 play, l loop, t tone, s stop, esc quit")

	var loop atomic.Bool
	toneOn := false
	if *flagTone > 0 {
		e.SetUserSynthFunction(tone(*flagTone))
		toneOn = true
	}

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			switch key.Code {
			case keys.CtrlC, keys.Escape:
				return true, nil
			case keys.RuneKey:
				switch r := key.Runes[0]; {
				case r >= '1' && r <= '9':
					if i := int(r - '1'); i < len(ids) {
						e.PlaySample(ids[i], loop.Load())
					}
				case r == 'l':
					loop.Store(!loop.Load())
				case r == 's':
					e.StopAll()
				case r == 't' && *flagTone > 0:
					toneOn = !toneOn
					if toneOn {
						e.SetUserSynthFunction(tone(*flagTone))
					} else {
						e.SetUserSynthFunction(nil)
					}
				}
			}
			return false, nil
		})
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			fmt.Println()
			return
		case <-ticker.C:
		}
		playing := 0
		for _, id := range ids {
			playing += e.ActiveCount(id)
		}
		fmt.Fprintf(os.Stdout, "\r%s %s %3d %s %-5v %s %d   ",
			green("%7.2fs", e.GlobalTime()),
			blue("playing"), playing,
			blue("loop"), loop.Load(),
			blue("glitches"), e.Glitches())
		if err := e.Err(); err != nil {
			fmt.Fprint(os.Stdout, magenta("%v", err))
		}
	}
}
