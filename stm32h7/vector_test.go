package stm32h7

import (
	"errors"
	"testing"
)

func TestHandlerTableDefaults(t *testing.T) {
	calls := 0
	def := func() { calls++ }
	table, err := NewHandlerTable(def, STM32H750IRQs())
	if err != nil {
		t.Fatal(err)
	}

	h, err := table.Resolve("SAI1")
	if err != nil {
		t.Fatal(err)
	}
	h()
	if calls != 1 {
		t.Errorf("default handler not invoked")
	}
	if got := len(table.Handlers()); got != IRQCount {
		t.Errorf("table length: got %d, want %d", got, IRQCount)
	}
}

func TestHandlerTableOverride(t *testing.T) {
	var fired string
	def := func() { fired = "default" }
	table, err := NewHandlerTable(def, STM32H750IRQs())
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Override("SDMMC1", func() { fired = "sdmmc" }); err != nil {
		t.Fatal(err)
	}

	h, err := table.Resolve("SDMMC1")
	if err != nil {
		t.Fatal(err)
	}
	h()
	if fired != "sdmmc" {
		t.Errorf("override not used, fired %q", fired)
	}

	// Other lines still resolve to the default.
	h, err = table.Resolve("TIM2")
	if err != nil {
		t.Fatal(err)
	}
	h()
	if fired != "default" {
		t.Errorf("default not used, fired %q", fired)
	}
}

func TestHandlerTableUnknownLine(t *testing.T) {
	table, err := NewHandlerTable(func() {}, STM32H750IRQs())
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Override("NOT_AN_IRQ", func() {}); !errors.Is(err, ErrUnknownIRQ) {
		t.Errorf("override: got %v, want ErrUnknownIRQ", err)
	}
	if _, err := table.Resolve("NOT_AN_IRQ"); !errors.Is(err, ErrUnknownIRQ) {
		t.Errorf("resolve: got %v, want ErrUnknownIRQ", err)
	}
	// Reserved positions have no name to resolve.
	if _, err := table.Resolve(""); !errors.Is(err, ErrUnknownIRQ) {
		t.Errorf("reserved: got %v, want ErrUnknownIRQ", err)
	}
}
