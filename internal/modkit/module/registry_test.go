package module

import (
	"testing"

	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
)

type greeter interface{ Greet() string }

type stubPorts struct{}

func (stubPorts) Greet() string { return "hi" }

type stubModule struct{ ports any }

func (stubModule) MountRoutes(phttp.Router) {}
func (m stubModule) Ports() any             { return m.ports }
func (stubModule) Name() string             { return "stub" }

func TestRegistryRoundTrip(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("stub", stubPorts{})

	got, ok := PortsAs[stubPorts]("stub")
	if !ok {
		t.Fatalf("registered ports not found")
	}
	if got.Greet() != "hi" {
		t.Fatalf("wrong ports returned")
	}

	if _, ok := PortsAs[stubPorts]("missing"); ok {
		t.Fatalf("unknown name should not resolve")
	}
	if _, ok := PortsAs[int]("stub"); ok {
		t.Fatalf("wrong type assertion should fail")
	}

	Reset()
	if _, ok := PortsAs[stubPorts]("stub"); ok {
		t.Fatalf("reset should clear the registry")
	}
}

func TestPortsOfWalksStructFields(t *testing.T) {
	type bundle struct {
		G greeter
	}

	m := stubModule{ports: bundle{G: stubPorts{}}}
	g, ok := PortsOf[greeter](m)
	if !ok {
		t.Fatalf("greeter not found in ports bundle")
	}
	if g.Greet() != "hi" {
		t.Fatalf("wrong greeter")
	}

	// direct implementers resolve without the field walk
	d := stubModule{ports: stubPorts{}}
	if _, ok := PortsOf[greeter](d); !ok {
		t.Fatalf("direct ports should resolve")
	}

	// nil bundles never resolve
	n := stubModule{ports: nil}
	if _, ok := PortsOf[greeter](n); ok {
		t.Fatalf("nil ports should not resolve")
	}
}

func TestMustPortsOfPanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing port")
		}
	}()
	MustPortsOf[greeter](stubModule{ports: struct{}{}})
}
