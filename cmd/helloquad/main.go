package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/nemo/helloquad/lib/app"
	"github.com/nemo/helloquad/lib/config"
	hqlog "github.com/nemo/helloquad/lib/log"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	configPtr := flag.String("config", "", "Config file (defaults are used when empty)")
	snapshotPtr := flag.String("snapshot", "", "Write the first frame to this PNG file and exit")
	framesPtr := flag.Uint64("frames", 0, "Exit after this many frames (0 = run until closed)")
	debugPtr := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	hqlog.Setup(*debugPtr)

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		cfg, err = config.Parse(*configPtr)
		if err != nil {
			log.Fatal(err)
		}
	}

	err := app.Run(cfg, app.Options{
		Snapshot: *snapshotPtr,
		Frames:   *framesPtr,
	})
	if err != nil {
		log.Fatalf("helloquad: %s", err)
	}
}
