package export

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/odosim/internal/sim"
	"github.com/san-kum/odosim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, "#00ff00")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}
}

func TestTrajectorySVG(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.SimTime = 10
	log, err := sim.New(sim.NewExactObservation(4, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := TrajectorySVG(&buf, log, 400, 300); err != nil {
		t.Fatal(err)
	}
	svg := buf.String()

	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
	for _, color := range []string{"#4488ff", "#ff4444", "#00cc66"} {
		if !strings.Contains(svg, color) {
			t.Errorf("missing layer colour %s", color)
		}
	}
	if n := strings.Count(svg, "l6,6"); n != len(log.Observations()) {
		t.Errorf("expected %d fix marks, got %d", len(log.Observations()), n)
	}

	if err := TrajectorySVG(&buf, &sim.Log{}, 400, 300); err == nil {
		t.Error("expected error for empty log")
	}

	path := filepath.Join(t.TempDir(), "run.svg")
	if err := TrajectorySVGFile(path, log, 400, 300); err != nil {
		t.Fatal(err)
	}
}
