package service

import (
	"math"
	"strings"

	"scent-llm/internal/catalog"
	"scent-llm/internal/domain"
)

const (
	maxNotesPerLayer = 3
	recipeComponents = 3
)

// normalizeRadar limita cada eje a [1,10]. Los ejes ausentes ya se rechazan en DecodeAnalysis.
func normalizeRadar(r *domain.RadarChart) {
	for _, axis := range r.Axes() {
		switch {
		case *axis < 1:
			*axis = 1
		case *axis > 10:
			*axis = 10
		}
	}
}

// normalizeRecipe reescala los ratios a 2.0 g con paso de 0.1 g.
// El residuo del redondeo va al componente más grande; ratios no positivos se reparten en partes iguales.
func normalizeRecipe(rec *domain.Recipe) {
	n := len(rec.Components)
	if n == 0 {
		return
	}
	total := int(math.Round(domain.RecipeTotalGrams * 10))

	weights := make([]float64, n)
	sum := 0.0
	even := false
	for i, c := range rec.Components {
		if c.Ratio <= 0 || math.IsNaN(c.Ratio) || math.IsInf(c.Ratio, 0) {
			even = true
			break
		}
		weights[i] = c.Ratio
		sum += c.Ratio
	}
	if even || sum <= 0 {
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(n)
	}

	tenths := make([]int, n)
	assigned := 0
	largest := 0
	for i, w := range weights {
		tenths[i] = max(1, int(math.Round(w*float64(total)/sum)))
		assigned += tenths[i]
		if w > weights[largest] {
			largest = i
		}
	}
	tenths[largest] += total - assigned

	for i := range rec.Components {
		rec.Components[i].Ratio = float64(tenths[i]) / 10
	}
	rec.TotalGrams = domain.RecipeTotalGrams
}

// noteFilter resuelve notas contra la base y quita las de familias que el usuario no quiere.
type noteFilter struct {
	flavors   *catalog.FlavorDB
	disliked  map[string]bool
	excluded  []string
	preferred []string
}

func newNoteFilter(flavors *catalog.FlavorDB, liked, disliked []string) *noteFilter {
	f := &noteFilter{flavors: flavors, disliked: map[string]bool{}}
	for _, d := range disliked {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		f.disliked[d] = true
		f.excluded = append(f.excluded, d)
	}
	for _, l := range liked {
		if l = strings.TrimSpace(l); l != "" {
			f.preferred = append(f.preferred, l)
		}
	}
	return f
}

// allowed devuelve la nota canónica si existe en la base y su familia no está excluida.
func (f *noteFilter) allowed(id, name string) (domain.FlavorNote, bool) {
	n, ok := f.flavors.Resolve(id, name)
	if !ok || f.disliked[n.Family] {
		return domain.FlavorNote{}, false
	}
	return n, true
}

// apply deja sólo notas válidas por capa y rellena las capas vacías desde la base.
// Devuelve cuántas notas se reemplazaron o descartaron.
func (f *noteFilter) apply(fr *domain.FragranceRecommendation) int {
	used := map[string]bool{}
	changed := 0
	layers := []struct {
		name  string
		notes *[]domain.Note
	}{
		{domain.NoteLayerTop, &fr.TopNotes},
		{domain.NoteLayerMiddle, &fr.MiddleNotes},
		{domain.NoteLayerBase, &fr.BaseNotes},
	}
	for _, l := range layers {
		kept := make([]domain.Note, 0, maxNotesPerLayer)
		for _, note := range *l.notes {
			n, ok := f.allowed(note.ID, note.Name)
			if !ok || used[n.ID] || len(kept) == maxNotesPerLayer {
				changed++
				continue
			}
			used[n.ID] = true
			kept = append(kept, domain.Note{ID: n.ID, Name: n.Name})
		}
		if len(kept) == 0 {
			if sub, ok := f.flavors.Substitute(l.name, f.excluded, f.preferred, used); ok {
				used[sub.ID] = true
				kept = append(kept, domain.Note{ID: sub.ID, Name: sub.Name})
			}
		}
		*l.notes = kept
	}

	changed += f.fixRecipe(fr, used)
	return changed
}

// fixRecipe reemplaza componentes de familias excluidas por notas ya elegidas para el perfume.
func (f *noteFilter) fixRecipe(fr *domain.FragranceRecommendation, used map[string]bool) int {
	inRecipe := map[string]bool{}
	for _, c := range fr.Recipe.Components {
		if n, ok := f.allowed(c.NoteID, c.Name); ok {
			inRecipe[n.ID] = true
		}
	}
	candidates := make([]domain.Note, 0, 9)
	candidates = append(candidates, fr.TopNotes...)
	candidates = append(candidates, fr.MiddleNotes...)
	candidates = append(candidates, fr.BaseNotes...)

	changed := 0
	if len(fr.Recipe.Components) > recipeComponents {
		fr.Recipe.Components = fr.Recipe.Components[:recipeComponents]
		changed++
	}
	for i := range fr.Recipe.Components {
		c := &fr.Recipe.Components[i]
		if n, ok := f.allowed(c.NoteID, c.Name); ok {
			c.NoteID, c.Name = n.ID, n.Name
			continue
		}
		for _, cand := range candidates {
			if inRecipe[cand.ID] {
				continue
			}
			c.NoteID, c.Name = cand.ID, cand.Name
			inRecipe[cand.ID] = true
			changed++
			break
		}
	}
	// Faltan componentes: se completan con notas del perfume y ratio 0 para forzar reparto parejo.
	for _, cand := range candidates {
		if len(fr.Recipe.Components) >= recipeComponents {
			break
		}
		if inRecipe[cand.ID] {
			continue
		}
		fr.Recipe.Components = append(fr.Recipe.Components, domain.RecipeComponent{NoteID: cand.ID, Name: cand.Name})
		inRecipe[cand.ID] = true
		changed++
	}
	return changed
}
