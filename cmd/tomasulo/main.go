package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nevetsosu/memhier/internal/pipesim"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: tomasulo [-v] <config-file>")
	}

	printIfVerbose(*verbose, "Reading pipeline config file %s...", flag.Arg(0))
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	cfg, err := pipesim.ReadConfig(f)
	f.Close()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	sched := cfg.NewScheduler()
	prog := pipesim.NewProgram()

	printIfVerbose(*verbose, "Scheduling trace from stdin...")

	var instrs []*pipesim.Instruction
	var lineNo, accepted uint
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		instr, err := pipesim.ParseLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARNING] line %d: %v\n", lineNo, err)
			continue
		}

		prog.Append(instr)
		sched.Schedule(instr)
		instrs = append(instrs, instr)
		accepted++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("error reading trace: %v", err)
	}

	pipesim.Report(os.Stdout, instrs, sched.Delays)

	if lineNo > 0 && accepted == 0 {
		os.Exit(1)
	}
}

func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
