package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenariosDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	body := `
scenarios:
  - name: shuffle
    iterations: 10
    list_size: 20
    shuffle: true
  - rotate: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	scenarios, err := loadScenarios(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("scenarios = %d", len(scenarios))
	}
	if scenarios[0].Name != "shuffle" || scenarios[0].Iterations != 10 {
		t.Errorf("first scenario = %+v", scenarios[0])
	}
	if scenarios[1].Name != "scenario-2" {
		t.Errorf("unnamed scenario = %q", scenarios[1].Name)
	}
	if scenarios[1].Iterations != 100 || scenarios[1].ListSize != 100 {
		t.Errorf("defaults not applied: %+v", scenarios[1])
	}
}

func TestLoadScenariosEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("scenarios: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadScenarios(path); err == nil {
		t.Fatal("expected error for empty scenario list")
	}
}

func TestRunScenarioShuffleMovesOnly(t *testing.T) {
	result, err := runScenario(Scenario{
		Name:       "shuffle",
		Iterations: 5,
		ListSize:   10,
		Shuffle:    true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// A pure permutation never creates or removes nodes.
	if result.Creates != 0 || result.Removes != 0 {
		t.Errorf("creates = %d, removes = %d", result.Creates, result.Removes)
	}
}

func TestRunScenarioReplaceChurns(t *testing.T) {
	result, err := runScenario(Scenario{
		Name:       "churn",
		Iterations: 5,
		ListSize:   10,
		Replace:    2,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Creates == 0 || result.Removes == 0 {
		t.Errorf("expected churn, got creates = %d, removes = %d", result.Creates, result.Removes)
	}
}

func TestRunScenarioRenderCountsBytes(t *testing.T) {
	result, err := runScenario(Scenario{
		Name:       "render",
		Iterations: 3,
		ListSize:   4,
		Render:     true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RenderedBytes == 0 {
		t.Error("no markup rendered")
	}
}
