package memsim

import (
	"strings"
	"testing"
)

const sampleConfig = `Data TLB configuration
Number of sets: 4
Set size: 2
Page Table configuration
Number of virtual pages: 8192
Number of physical pages: 2048
Page size: 16
Data Cache configuration
Number of sets: 1
Set size: 2
Line size: 8
Write through/no write allocate: n
L2 Cache configuration
Number of sets: 1
Set size: 2
Line size: 16
Write through/no write allocate: n
Toggles
Virtual addresses: y
TLB: y
L2 cache: y
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	if cfg.TLBNumSets != 4 || cfg.TLBSetSize != 2 {
		t.Fatalf("TLB config = %+v", cfg)
	}
	if cfg.PTNumVPages != 8192 || cfg.PTNumPPages != 2048 || cfg.PTPageSize != 16 {
		t.Fatalf("page table config = %+v", cfg)
	}
	if cfg.DCLineSize != 8 || cfg.DCWrite != false {
		t.Fatalf("DC config = %+v", cfg)
	}
	if !cfg.VirtualAddresses || !cfg.UseTLB || !cfg.UseL2 {
		t.Fatalf("toggles = %+v", cfg)
	}
}

func TestReadConfigRejectsOverLimit(t *testing.T) {
	bad := strings.Replace(sampleConfig, "Number of sets: 4\n", "Number of sets: 512\n", 1)
	if _, err := ReadConfig(strings.NewReader(bad)); err == nil {
		t.Fatal("expected a validation error for TLB sets over the limit")
	}
}

func TestReadConfigRejectsNonPowerOfTwo(t *testing.T) {
	bad := strings.Replace(sampleConfig, "Set size: 2\nLine size: 8", "Set size: 3\nLine size: 8", 1)
	if _, err := ReadConfig(strings.NewReader(bad)); err == nil {
		t.Fatal("expected a validation error for a non-power-of-two set size")
	}
}

func TestReadConfigRejectsMissingLabel(t *testing.T) {
	bad := strings.Replace(sampleConfig, "Data TLB configuration\n", "Garbage\n", 1)
	if _, err := ReadConfig(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for a mismatched section label")
	}
}
