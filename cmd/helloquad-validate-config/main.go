package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nemo/helloquad/lib/app"
	"github.com/nemo/helloquad/lib/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <config file>", os.Args[0])
	}
	cfg, err := config.Parse(os.Args[1])
	if err != nil {
		fmt.Printf("Config invalid: %s\n", err)
		os.Exit(1)
	}

	// renders the shader templates, including overrides from disk
	_, err = app.BuildQuad(cfg)
	if err != nil {
		fmt.Printf("Shaders invalid: %s\n", err)
		os.Exit(1)
	}

	fmt.Print("Config valid!\n\n")

	fmt.Print(cfg)
}
