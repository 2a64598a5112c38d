//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/markkurossi/itsmpc/coordinator"
	"github.com/markkurossi/itsmpc/internal/calc"
	"github.com/markkurossi/itsmpc/internal/ipfilter"
)

func main() {
	listen := flag.String("listen", ":9000", "address to listen on for agent connections")
	agents := flag.Int("agents", coordinator.NP, "number of agents to seat (must be 3)")
	quiet := flag.Bool("quiet", false, "suppress non-error output")
	allow := flag.String("allow", "", "comma-separated list of CIDR blocks allowed to join (default: allow all)")
	flag.Parse()

	log.SetFlags(0)

	if *agents != coordinator.NP {
		log.Fatalf("coordinator: -agents must be %d, got %d", coordinator.NP, *agents)
	}

	var cidrs []string
	if *allow != "" {
		cidrs = splitCSV(*allow)
	}
	allowFunc, err := ipfilter.FromCIDRs(cidrs)
	if err != nil {
		log.Fatal(err)
	}

	sess := coordinator.NewSession(rand.New(rand.NewSource(time.Now().UnixNano())))
	if !*quiet {
		log.Printf("listening on %s, waiting for %d agents to join", *listen, coordinator.NP)
	}
	if err := sess.ListenAndAccept("tcp", *listen, allowFunc); err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	if !*quiet {
		log.Printf("all agents joined, ready for input")
	}
	if err := calc.Run(os.Stdin, os.Stdout, sess); err != nil {
		log.Fatal(err)
	}
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
