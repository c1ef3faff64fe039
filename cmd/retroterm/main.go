// Command retroterm is a 1991-style terminal chat room with period audio:
// a vintage-processed robot voice, UI sounds, ambience and chiptune music.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/retrovoice/service"
	"github.com/lixenwraith/retrovoice/vintage"
)

var (
	settingsFlag = flag.String("settings", "", "Settings file (empty keeps settings in memory)")
	headlessFlag = flag.Bool("headless", false, "Render audio without a sound device")
	levelFlag    = flag.String("level", vintage.Authentic.String(), "Voice level: modern, subtle, authentic, ultra")
	seedFlag     = flag.Int64("seed", 0, "Artifact RNG seed (0 uses the clock)")
	liveFlag     = flag.Bool("live", false, "Bit-crush speech during playback instead of offline")
	debugFlag    = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
	nameFlag     = flag.String("name", "friend", "Name the doctor calls you")
)

func main() {
	flag.Parse()

	level, err := vintage.ParseLevel(*levelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -level: %v\n", err)
		os.Exit(2)
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}

	stack, err := service.NewStack(log.Default(), service.StackOptions{
		Headless:     *headlessFlag,
		SettingsPath: *settingsFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register audio services: %v\n", err)
		os.Exit(1)
	}
	if err := stack.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start audio: %v\n", err)
		os.Exit(1)
	}
	defer stack.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal before printing a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			stack.Stop()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mRETROTERM CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	a := newApp(screen, stack, level, *liveFlag, seed, *nameFlag)
	a.run()
	a.shutdown()
	screen.Fini()
}
