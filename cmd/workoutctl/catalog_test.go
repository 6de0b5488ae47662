package main

import (
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
)

func TestParseCatalogDefaults(t *testing.T) {
	raw := `exercises:
  - name: "  Squat  "
    muscleGroup: legs
  - name: Plank
    type: time_based
    active: false
`
	entries, err := parseCatalog(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("parseCatalog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	squat := entries[0]
	if squat.Name != "Squat" || squat.Type != domain.ExerciseTypeWeightBased || !squat.IsActive {
		t.Fatalf("unexpected squat entry: %+v", squat)
	}
	plank := entries[1]
	if plank.Type != domain.ExerciseTypeTimeBased || plank.IsActive {
		t.Fatalf("unexpected plank entry: %+v", plank)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no exercises":  "exercises: []\n",
		"unknown field": "exercises:\n  - name: Squat\n    weight: 100\n",
		"malformed":     "exercises: [\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseCatalog(strings.NewReader(raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Name"},
		[][]string{{"1", "Bench Press"}, {"12"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	for _, want := range []string{"ID", "NAME", "Bench Press", "12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatalf("expected empty output without headers")
	}
}
