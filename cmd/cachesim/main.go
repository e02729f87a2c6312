// Command cachesim replays a memory trace through a two-level cache
// hierarchy and reports hit, miss and latency statistics.
package main

import (
	"log"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cachesim: ")

	Execute()
}
