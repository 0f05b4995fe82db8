package config

import (
	"testing"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/testkit"
)

func TestPrefixComposition(t *testing.T) {
	t.Setenv("API_BADGES_CONTEXT_TTL", "90s")

	cfg := New().Prefix("API_").Prefix("BADGES_")
	if got := cfg.MayDuration("CONTEXT_TTL", time.Second); got != 90*time.Second {
		t.Fatalf("nested prefix read = %v", got)
	}
}

func TestMustStringPanicsWhenMissing(t *testing.T) {
	cfg := New().Prefix("TEST_MISSING_")
	testkit.MustPanic(t, func() { cfg.MustString("NOPE") })

	t.Setenv("TEST_MISSING_BLANK", "   ")
	testkit.MustPanic(t, func() { cfg.MustString("BLANK") })

	t.Setenv("TEST_MISSING_SET", " value ")
	if got := cfg.MustString("SET"); got != "value" {
		t.Fatalf("MustString = %q, want trimmed value", got)
	}
}

func TestMustInt(t *testing.T) {
	cfg := New().Prefix("TEST_INT_")
	t.Setenv("TEST_INT_OK", "42")
	if got := cfg.MustInt("OK"); got != 42 {
		t.Fatalf("MustInt = %d", got)
	}
	t.Setenv("TEST_INT_BAD", "forty")
	testkit.MustPanic(t, func() { cfg.MustInt("BAD") })
	testkit.MustPanic(t, func() { cfg.MustInt("ABSENT") })
}

func TestMustPort(t *testing.T) {
	cfg := New().Prefix("TEST_PORT_")
	t.Setenv("TEST_PORT_OK", "4000")
	if got := cfg.MustPort("OK"); got != ":4000" {
		t.Fatalf("MustPort = %q", got)
	}
	t.Setenv("TEST_PORT_HIGH", "70000")
	testkit.MustPanic(t, func() { cfg.MustPort("HIGH") })
	t.Setenv("TEST_PORT_ZERO", "0")
	testkit.MustPanic(t, func() { cfg.MustPort("ZERO") })
}

func TestRequire(t *testing.T) {
	cfg := New().Prefix("TEST_REQ_")
	t.Setenv("TEST_REQ_A", "1")
	t.Setenv("TEST_REQ_B", "2")
	testkit.MustNotPanic(t, func() { cfg.Require("A", "B") })
	testkit.MustPanic(t, func() { cfg.Require("A", "C") })
}

func TestMayDefaults(t *testing.T) {
	cfg := New().Prefix("TEST_MAY_")

	if got := cfg.MayString("S", "fallback"); got != "fallback" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := cfg.MayInt("I", 7); got != 7 {
		t.Fatalf("MayInt default = %d", got)
	}
	if got := cfg.MayBool("B", true); got != true {
		t.Fatalf("MayBool default = %v", got)
	}
	if got := cfg.MayDuration("D", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration default = %v", got)
	}

	t.Setenv("TEST_MAY_S", "set")
	t.Setenv("TEST_MAY_I", "3")
	t.Setenv("TEST_MAY_B", "false")
	t.Setenv("TEST_MAY_D", "250ms")
	if cfg.MayString("S", "x") != "set" || cfg.MayInt("I", 0) != 3 {
		t.Fatalf("May readers ignored set values")
	}
	if cfg.MayBool("B", true) != false || cfg.MayDuration("D", 0) != 250*time.Millisecond {
		t.Fatalf("May readers ignored set values")
	}
}

func TestMayInvalidFallsBack(t *testing.T) {
	cfg := New().Prefix("TEST_MAYBAD_")
	t.Setenv("TEST_MAYBAD_I", "nope")
	t.Setenv("TEST_MAYBAD_B", "maybe")
	t.Setenv("TEST_MAYBAD_D", "soonish")

	if got := cfg.MayInt("I", 5); got != 5 {
		t.Fatalf("MayInt invalid = %d, want default", got)
	}
	if got := cfg.MayBool("B", true); got != true {
		t.Fatalf("MayBool invalid = %v, want default", got)
	}
	if got := cfg.MayDuration("D", time.Second); got != time.Second {
		t.Fatalf("MayDuration invalid = %v, want default", got)
	}
}
