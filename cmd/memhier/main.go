package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nevetsosu/memhier/internal/memsim"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose per-access logging")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: memhier [-v] <config-file>")
	}

	printIfVerbose(*verbose, "Reading config file %s...", flag.Arg(0))
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	cfg, err := memsim.ReadConfig(f)
	f.Close()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	cfg.Print(os.Stdout)

	h := memsim.New(cfg)

	printIfVerbose(*verbose, "Running trace from stdin...")

	var reads, writes, lineNo, accepted uint
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		a, err := memsim.ParseLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARNING] line %d: %v\n", lineNo, err)
			continue
		}
		if !cfg.InBounds(a.Addr) {
			fmt.Fprintf(os.Stderr, "[WARNING] line %d: address %x exceeds configured address space\n", lineNo, a.Addr)
			continue
		}

		h.Access(a.Addr, a.IsWrite)
		accepted++
		if a.IsWrite {
			writes++
		} else {
			reads++
		}

		if *verbose {
			memsim.PerAccessLine(os.Stdout, lineNo, a, h)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("error reading trace: %v", err)
	}

	memsim.Summary(os.Stdout, cfg, h, reads, writes)

	if lineNo > 0 && accepted == 0 {
		os.Exit(1)
	}
}

func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
