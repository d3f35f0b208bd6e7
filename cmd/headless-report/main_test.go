package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Garsondee/tileframe/internal/gfx"
)

func TestTopImages_OrdersByCountThenName(t *testing.T) {
	got := topImages(map[string]int{"road": 3, "ground": 5, "block": 3, "vehicle": 1}, 3)
	want := "ground(5),block(3),road(3)"
	if got != want {
		t.Fatalf("topImages got %q, want %q", got, want)
	}
	if got := topImages(nil, 3); got != "none" {
		t.Fatalf("empty topImages got %q, want none", got)
	}
}

func TestTallyDraws_CountsScaledAndPerImage(t *testing.T) {
	rs := runStats{perImage: map[string]int{}}
	tallyDraws(&rs, []gfx.DrawCall{
		{Image: "ground"},
		{Image: "ground"},
		{Image: "building-circle", Scaled: true},
	})
	if rs.draws != 3 || rs.scaled != 1 {
		t.Fatalf("got draws=%d scaled=%d, want 3 and 1", rs.draws, rs.scaled)
	}
	if rs.perImage["ground"] != 2 {
		t.Fatalf("ground draws got %d, want 2", rs.perImage["ground"])
	}
}

func TestRunCity_PauseScenario(t *testing.T) {
	cfg := runConfig{frames: 8, width: 160, height: 120, citySize: 16, scenario: "pause"}
	rs, err := runCity(1, 7, cfg)
	if err != nil {
		t.Fatalf("runCity: %v", err)
	}
	if rs.frames != cfg.frames {
		t.Fatalf("frames got %d, want %d", rs.frames, cfg.frames)
	}
	if rs.stageFrames["city"] == 0 || rs.stageFrames["pause"] == 0 {
		t.Fatalf("stage frames got %v, want city and pause", rs.stageFrames)
	}
	if rs.perImage["pause-banner"] == 0 {
		t.Fatal("pause banner never drawn")
	}

	var buf bytes.Buffer
	printRun(&buf, rs)
	printAggregate(&buf, []runStats{rs})
	out := buf.String()
	for _, want := range []string{"--- Run 1 (seed=7) ---", "frames=8", "view: mode=isometric", "=== Aggregate ===", "runs=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestScenarios_Registered(t *testing.T) {
	got := strings.Join(scenarioNames(), ",")
	if got != "idle,pan,pause,strategy" {
		t.Fatalf("scenarios got %s", got)
	}
}
