package registry

import (
	"testing"

	"github.com/vovakirdan/tui-blockblast/internal/core"
)

type stubGame struct {
	id  string
	env *Env
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub " + g.id }
func (g *stubGame) Description() string { return "a stub" }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }
func (g *stubGame) Configure(env Env) { g.env = &env }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return &stubGame{id: "stub_b"} })
	Register("stub_a", func() Game { return &stubGame{id: "stub_a"} })

	if !Exists("stub_a") || Exists("stub_missing") {
		t.Fatal("Exists reports wrong registrations")
	}

	var order []string
	for _, info := range List() {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			order = append(order, info.ID)
			if info.Description != "a stub" {
				t.Errorf("%s description = %q", info.ID, info.Description)
			}
		}
	}
	if len(order) != 2 || order[0] != "stub_b" {
		t.Errorf("List should keep registration order, got %v", order)
	}

	g, err := CreateWith("stub_a", Env{Player: "ana"})
	if err != nil {
		t.Fatalf("CreateWith() failed: %v", err)
	}
	if sg := g.(*stubGame); sg.env == nil || sg.env.Player != "ana" {
		t.Error("CreateWith should configure the game")
	}

	if _, err := Create("stub_missing"); err == nil {
		t.Error("unknown ids should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
}
