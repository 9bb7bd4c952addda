package service

import (
	"math"
	"testing"

	"scent-llm/internal/domain"
)

func TestNormalizeRadar(t *testing.T) {
	r := domain.RadarChart{Softness: 0, Intensity: -2, Freshness: 11, Warmth: 5}
	normalizeRadar(&r)
	if r.Softness != 1 {
		t.Fatalf("expected 0 to be clamped to 1, got %d", r.Softness)
	}
	if r.Intensity != 1 || r.Freshness != 10 || r.Warmth != 5 {
		t.Fatalf("unexpected clamp result: %+v", r)
	}
}

func TestNormalizeRecipe(t *testing.T) {
	cases := []struct {
		name   string
		ratios []float64
		want   []float64
	}{
		{name: "already normalized", ratios: []float64{1.0, 0.6, 0.4}, want: []float64{1.0, 0.6, 0.4}},
		{name: "rescale percentages", ratios: []float64{50, 30, 20}, want: []float64{1.0, 0.6, 0.4}},
		{name: "residue goes to largest", ratios: []float64{1, 1, 1}, want: []float64{0.6, 0.7, 0.7}},
		{name: "non positive means even split", ratios: []float64{1, 0, 3}, want: []float64{0.6, 0.7, 0.7}},
		{name: "tiny component keeps minimum", ratios: []float64{100, 0.01, 0.01}, want: []float64{1.8, 0.1, 0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := domain.Recipe{}
			for _, r := range tc.ratios {
				rec.Components = append(rec.Components, domain.RecipeComponent{Name: "n", Ratio: r})
			}
			normalizeRecipe(&rec)

			for i, c := range rec.Components {
				if math.Abs(c.Ratio-tc.want[i]) > 1e-9 {
					t.Fatalf("component %d: expected %v, got %v", i, tc.want[i], c.Ratio)
				}
			}
			if got := rec.SumTenths(); got != 20 {
				t.Fatalf("expected 20 tenths, got %d", got)
			}
			if rec.TotalGrams != domain.RecipeTotalGrams {
				t.Fatalf("expected totalGrams 2.0, got %v", rec.TotalGrams)
			}
		})
	}
}

func TestCloneKeepsRawRecipeRatios(t *testing.T) {
	res := &domain.AnalysisResult{FragranceRecommendations: []domain.FragranceRecommendation{{
		Recipe: domain.Recipe{Components: []domain.RecipeComponent{
			{Name: "a", Ratio: 1.96}, {Name: "b", Ratio: 0.02}, {Name: "c", Ratio: 0.02},
		}},
	}}}
	cp, err := cloneAnalysis(res)
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	rec := cp.FragranceRecommendations[0].Recipe
	if rec.Components[1].Ratio != 0.02 {
		t.Fatalf("expected raw ratio kept through clone, got %v", rec.Components[1].Ratio)
	}
	normalizeRecipe(&rec)
	if rec.Components[0].Ratio != 1.8 {
		t.Fatalf("expected proportional rescale, got %+v", rec.Components)
	}
}

func TestNoteFilterDropsDislikedAndBackfills(t *testing.T) {
	cat := loadTestCatalog(t)
	filter := newNoteFilter(cat.Flavors, []string{"시트러스"}, []string{"우디", "바닐라"})
	fr := domain.FragranceRecommendation{
		TopNotes:    []domain.Note{{Name: "Bergamot"}, {ID: "ct-bergamot"}, {Name: "존재하지 않는 노트"}},
		MiddleNotes: []domain.Note{{ID: "wd-vetiver", Name: "베티버"}},
		BaseNotes:   []domain.Note{{ID: "vn-vanilla"}, {ID: "mk-white-musk", Name: "화이트머스크"}},
		Recipe: domain.Recipe{Components: []domain.RecipeComponent{
			{NoteID: "vn-vanilla", Name: "바닐라", Ratio: 1},
			{NoteID: "mk-white-musk", Name: "화이트머스크", Ratio: 1},
		}},
	}

	changed := filter.apply(&fr)
	if changed == 0 {
		t.Fatalf("expected changes to be reported")
	}
	if len(fr.TopNotes) != 1 || fr.TopNotes[0].ID != "ct-bergamot" || fr.TopNotes[0].Name != "베르가못" {
		t.Fatalf("expected deduplicated canonical bergamot, got %+v", fr.TopNotes)
	}
	if len(fr.MiddleNotes) != 1 || fr.MiddleNotes[0].ID != "ct-yuzu" {
		t.Fatalf("expected middle backfill from liked family, got %+v", fr.MiddleNotes)
	}
	if len(fr.BaseNotes) != 1 || fr.BaseNotes[0].ID != "mk-white-musk" {
		t.Fatalf("expected vanilla removed from base, got %+v", fr.BaseNotes)
	}
	if len(fr.Recipe.Components) != 3 {
		t.Fatalf("expected recipe completed to 3 components, got %d", len(fr.Recipe.Components))
	}
	seen := map[string]bool{}
	for _, c := range fr.Recipe.Components {
		n, ok := cat.Flavors.Resolve(c.NoteID, c.Name)
		if !ok || n.Family == "우디" || n.Family == "바닐라" {
			t.Fatalf("unexpected recipe component %+v", c)
		}
		if seen[n.ID] {
			t.Fatalf("duplicate recipe component %s", n.ID)
		}
		seen[n.ID] = true
	}
}
