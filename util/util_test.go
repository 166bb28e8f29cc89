package util_test

import (
	"testing"

	"github.com/go-sayo/sayohid/util"
)

func TestNibblePackUnpack(t *testing.T) {
	b := util.PackNibbles(0x3, 0xA)
	if util.LowNibble(b) != 0x3 {
		t.Errorf("expected low nibble 0x3, got %#x", util.LowNibble(b))
	}
	if util.HighNibble(b) != 0xA {
		t.Errorf("expected high nibble 0xA, got %#x", util.HighNibble(b))
	}
}

func TestPackNibblesMasksInput(t *testing.T) {
	b := util.PackNibbles(0xF3, 0xFA)
	if util.LowNibble(b) != 0x3 {
		t.Errorf("expected low nibble 0x3, got %#x", util.LowNibble(b))
	}
	if util.HighNibble(b) != 0xA {
		t.Errorf("expected high nibble 0xA, got %#x", util.HighNibble(b))
	}
}
