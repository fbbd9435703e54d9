package main

import (
	"log"

	"github.com/sjzar/procwatch/cmd/procwatch"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	procwatch.Execute()
}
