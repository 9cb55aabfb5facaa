package pipesim

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Config holds the parsed pipeline config file: functional-unit pool
// capacities, reorder-buffer size, and fp latencies. Grounded on
// original_source/tomasulo/mine/config.c.
type Config struct {
	EffAddr int
	FPAdds  int
	FPMuls  int
	Ints    int
	Reorder int

	Latencies Latencies
}

// ReadConfig parses a pipeline config file per spec.md §6: labels may carry
// leading whitespace, in the fixed order eff addr, fp adds, fp muls, ints,
// reorder, then the four fp latencies.
func ReadConfig(r io.Reader) (*Config, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		lineNo++
		return strings.TrimSpace(sc.Text()), nil
	}

	field := func(label string, out *int) error {
		line, err := next()
		if err != nil {
			return fmt.Errorf("line %d: expected %q: %w", lineNo+1, label, err)
		}
		if n, serr := fmt.Sscanf(line, label+":%d", out); serr != nil || n != 1 {
			return fmt.Errorf("line %d: expected %q, got %q", lineNo, label, line)
		}
		return nil
	}

	c := &Config{}
	if err := field("eff addr", &c.EffAddr); err != nil {
		return nil, err
	}
	if err := field("fp adds", &c.FPAdds); err != nil {
		return nil, err
	}
	if err := field("fp muls", &c.FPMuls); err != nil {
		return nil, err
	}
	if err := field("ints", &c.Ints); err != nil {
		return nil, err
	}
	if err := field("reorder", &c.Reorder); err != nil {
		return nil, err
	}

	var add, sub, mul, div int
	if err := field("fp_add", &add); err != nil {
		return nil, err
	}
	if err := field("fp_sub", &sub); err != nil {
		return nil, err
	}
	if err := field("fp_mul", &mul); err != nil {
		return nil, err
	}
	if err := field("fp_div", &div); err != nil {
		return nil, err
	}
	c.Latencies = Latencies{FPAdd: uint(add), FPSub: uint(sub), FPMul: uint(mul), FPDiv: uint(div)}

	return c, nil
}

// NewScheduler builds a Scheduler from this config.
func (c *Config) NewScheduler() *Scheduler {
	return NewScheduler(c.EffAddr, c.Ints, c.FPMuls, c.FPAdds, c.Reorder, c.Latencies)
}
