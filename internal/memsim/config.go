// Package memsim implements the memory hierarchy simulator: a virtual
// address passes through an optional TLB, a page table, and a chain of one
// or two set-associative data caches (L1, optionally backed by L2).
package memsim

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nevetsosu/memhier/internal/bits"
)

// Bound constants mirror the limits enforced by the original config
// validator (original_source/memhier/solution/config.c), restated in
// spec.md §6.
const (
	maxAssociativity = 8
	tlbMaxSets       = 256
	dcMaxSets        = 8192
	maxVPages        = 8192
	maxPPages        = 2048
	minLineSize      = 8
)

// Config holds the parsed contents of a memory-hierarchy config file. Field
// names follow the original Config struct (config.h): tlb_*, pt_*, dc_*,
// L2_*, plus the three toggles.
type Config struct {
	TLBNumSets  uint
	TLBSetSize  uint

	PTNumVPages uint
	PTNumPPages uint
	PTPageSize  uint

	DCNumSets  uint
	DCSetSize  uint
	DCLineSize uint
	DCWrite    bool // true: write-through/no-write-allocate, false: write-back/write-allocate

	L2NumSets  uint
	L2SetSize  uint
	L2LineSize uint
	L2Write    bool

	VirtualAddresses bool
	UseTLB           bool
	UseL2            bool
}

// lineReader wraps a *bufio.Scanner and tracks a 1-based line number for
// diagnostics, matching the "on line N" phrasing of the original parser.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (r *lineReader) next() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	r.line++
	return r.sc.Text(), nil
}

// expectLabel reads one line and requires it equal want exactly.
func (r *lineReader) expectLabel(want string) error {
	got, err := r.next()
	if err != nil {
		return fmt.Errorf("line %d: expected %q: %w", r.line+1, want, err)
	}
	if got != want {
		return fmt.Errorf("line %d: expected %q, got %q", r.line, want, got)
	}
	return nil
}

// scanField reads one line and scans it against format, matching the
// original's "Label: %lu" / "Label: %c" sscanf prefix-matching.
func (r *lineReader) scanField(format, label string, args ...any) error {
	got, err := r.next()
	if err != nil {
		return fmt.Errorf("line %d: expected %q: %w", r.line+1, label, err)
	}
	if n, serr := fmt.Sscanf(got, format, args...); serr != nil || n != len(args) {
		return fmt.Errorf("line %d: expected %q, got %q", r.line, label, got)
	}
	return nil
}

func (r *lineReader) scanToggle(label string, out *bool) error {
	var c string
	if err := r.scanField(label+": %1s", label, &c); err != nil {
		return err
	}
	switch c {
	case "y":
		*out = true
	case "n":
		*out = false
	default:
		return fmt.Errorf("line %d: expected %q: <y,n>, got %q", r.line, label, c)
	}
	return nil
}

// ReadConfig parses a memory-hierarchy config file per spec.md §6: exact
// section/line order, prefix-matched labels, decimal unsigned numerics,
// y/n toggles. Any structural or validation failure is fatal and reported
// with the offending line or field named.
func ReadConfig(r io.Reader) (*Config, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}
	c := &Config{}

	if err := lr.expectLabel("Data TLB configuration"); err != nil {
		return nil, err
	}
	if err := lr.scanField("Number of sets: %d", "Number of sets", &c.TLBNumSets); err != nil {
		return nil, err
	}
	if err := lr.scanField("Set size: %d", "Set size", &c.TLBSetSize); err != nil {
		return nil, err
	}

	if err := lr.expectLabel("Page Table configuration"); err != nil {
		return nil, err
	}
	if err := lr.scanField("Number of virtual pages: %d", "Number of virtual pages", &c.PTNumVPages); err != nil {
		return nil, err
	}
	if err := lr.scanField("Number of physical pages: %d", "Number of physical pages", &c.PTNumPPages); err != nil {
		return nil, err
	}
	if err := lr.scanField("Page size: %d", "Page size", &c.PTPageSize); err != nil {
		return nil, err
	}

	if err := lr.expectLabel("Data Cache configuration"); err != nil {
		return nil, err
	}
	if err := lr.scanField("Number of sets: %d", "Number of sets", &c.DCNumSets); err != nil {
		return nil, err
	}
	if err := lr.scanField("Set size: %d", "Set size", &c.DCSetSize); err != nil {
		return nil, err
	}
	if err := lr.scanField("Line size: %d", "Line size", &c.DCLineSize); err != nil {
		return nil, err
	}
	if err := lr.scanToggle("Write through/no write allocate", &c.DCWrite); err != nil {
		return nil, err
	}

	if err := lr.expectLabel("L2 Cache configuration"); err != nil {
		return nil, err
	}
	if err := lr.scanField("Number of sets: %d", "Number of sets", &c.L2NumSets); err != nil {
		return nil, err
	}
	if err := lr.scanField("Set size: %d", "Set size", &c.L2SetSize); err != nil {
		return nil, err
	}
	if err := lr.scanField("Line size: %d", "Line size", &c.L2LineSize); err != nil {
		return nil, err
	}
	if err := lr.scanToggle("Write through/no write allocate", &c.L2Write); err != nil {
		return nil, err
	}

	if err := lr.expectLabel("Toggles"); err != nil {
		return nil, err
	}
	if err := lr.scanToggle("Virtual addresses", &c.VirtualAddresses); err != nil {
		return nil, err
	}
	if err := lr.scanToggle("TLB", &c.UseTLB); err != nil {
		return nil, err
	}
	if err := lr.scanToggle("L2 cache", &c.UseL2); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate enforces the bounds from spec.md §6 in the same order as the
// original validate_config, so the first failing check matches the
// original's diagnostic precedence.
func (c *Config) validate() error {
	switch {
	case c.TLBNumSets > tlbMaxSets:
		return fmt.Errorf("TLB max number of sets is %d", tlbMaxSets)
	case c.DCNumSets > dcMaxSets:
		return fmt.Errorf("DC max number of sets is %d", dcMaxSets)
	case c.TLBSetSize > maxAssociativity || c.DCSetSize > maxAssociativity || c.L2SetSize > maxAssociativity:
		return fmt.Errorf("max set size (associativity) is %d", maxAssociativity)
	case c.PTNumVPages > maxVPages:
		return fmt.Errorf("page table max number of virtual pages is %d", maxVPages)
	case c.PTNumPPages > maxPPages:
		return fmt.Errorf("page table max number of physical pages is %d", maxPPages)
	case c.DCLineSize < minLineSize:
		return fmt.Errorf("DC min line size is %d", minLineSize)
	case c.L2LineSize < c.DCLineSize:
		return fmt.Errorf("L2 line size should be greater than or equal to DC line size")
	}

	for _, f := range []struct {
		name string
		val  uint
	}{
		{"TLB set size", c.TLBSetSize},
		{"DC set size", c.DCSetSize},
		{"DC line size", c.DCLineSize},
		{"L2 set size", c.L2SetSize},
		{"L2 line size", c.L2LineSize},
		{"page table number of virtual pages", c.PTNumVPages},
		{"page table number of physical pages", c.PTNumPPages},
	} {
		if !bits.IsPowerOfTwo(uint64(f.val)) {
			return fmt.Errorf("%s should be a power of 2", f.name)
		}
	}
	return nil
}

// Print renders the config in the same tabular layout as the original
// print_config, used for the simulator's verbose/report startup banner.
func (c *Config) Print(w io.Writer) {
	yn := func(b bool) string {
		if b {
			return "y"
		}
		return "n"
	}
	lines := []string{
		"Data TLB configuration",
		fmt.Sprintf("\tNumber of sets: %d", c.TLBNumSets),
		fmt.Sprintf("\tSet size: %d\n", c.TLBSetSize),
		"Page Table configuration",
		fmt.Sprintf("\tNumber of virtual pages: %d", c.PTNumVPages),
		fmt.Sprintf("\tNumber of physical pages: %d", c.PTNumPPages),
		fmt.Sprintf("\tPage size: %d\n", c.PTPageSize),
		"Data Cache configuration",
		fmt.Sprintf("\tNumber of sets: %d", c.DCNumSets),
		fmt.Sprintf("\tSet size: %d", c.DCSetSize),
		fmt.Sprintf("\tLine size: %d", c.DCLineSize),
		fmt.Sprintf("\tWrite through/no write allocate: %s\n", yn(c.DCWrite)),
		"L2 Cache configuration",
		fmt.Sprintf("\tNumber of sets: %d", c.L2NumSets),
		fmt.Sprintf("\tSet size: %d", c.L2SetSize),
		fmt.Sprintf("\tLine size: %d", c.L2LineSize),
		fmt.Sprintf("\tWrite through/no write allocate: %s\n", yn(c.L2Write)),
		"Toggles",
		fmt.Sprintf("\tVirtual addresses: %s", yn(c.VirtualAddresses)),
		fmt.Sprintf("\tTLB: %s", yn(c.UseTLB)),
		fmt.Sprintf("\tL2: %s\n", yn(c.UseL2)),
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
