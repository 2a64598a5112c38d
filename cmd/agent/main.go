//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/markkurossi/itsmpc/agent"
)

func main() {
	host := flag.String("host", "127.0.0.1", "coordinator host")
	port := flag.Int("port", 9000, "coordinator port")
	flag.Parse()

	log.SetFlags(0)

	addr := net.JoinHostPort(*host, fmt.Sprintf("%d", *port))

	a, err := agent.Dial("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	log.Printf("joined coordinator at %s", addr)
	if err := a.Serve(); err != nil && err != io.EOF {
		log.Fatal(err)
	}
	log.Printf("session ended")
}
