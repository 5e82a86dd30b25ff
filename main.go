package main

import (
	"flag"
	"log"

	cmdl "soundscape/commandline"
	"soundscape/rand"

	"github.com/gopxl/mainthread/v2"
)

func newRand(offset uint32) *rand.Generator {
	if cmdl.Seed() == 0 {
		return rand.NewTimeSeeded()
	}
	return rand.New(cmdl.Seed() + offset)
}

func main() {
	flag.Parse()
	if dir := cmdl.DumpDirectory(); dir != "" {
		if err := dumpBuffers(dir); err != nil {
			log.Fatalf("dump: %v", err)
		}
		if !cmdl.Render() {
			return
		}
	}
	if cmdl.Render() {
		if err := renderToFile(cmdl.RenderOutput(), cmdl.RenderDuration()); err != nil {
			log.Fatalf("render: %v", err)
		}
		return
	}
	mainthread.Run(runLive)
}
