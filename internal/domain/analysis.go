package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// AnalysisResult es la forma estricta que esperamos del modelo.
type AnalysisResult struct {
	PersonalityAnalysis      PersonalityAnalysis       `json:"personalityAnalysis"`
	MovieAnalysis            MovieAnalysis             `json:"movieAnalysis"`
	MusicAnalysis            MusicAnalysis             `json:"musicAnalysis"`
	FragranceRecommendations []FragranceRecommendation `json:"fragranceRecommendations" validate:"required,min=1,max=3,dive"`
	RecommendedMovies        []RecommendedMovie        `json:"recommendedMovies" validate:"required,min=2,max=3,dive"`
	RecommendedSongs         []RecommendedSong         `json:"recommendedSongs" validate:"required,min=2,max=3,dive"`
	LifestyleAdvice          LifestyleAdvice           `json:"lifestyleAdvice"`
}

type PersonalityAnalysis struct {
	CorePersonality     string `json:"corePersonality" validate:"required"`
	EmotionalDepth      string `json:"emotionalDepth" validate:"required"`
	SocialTendency      string `json:"socialTendency" validate:"required"`
	AestheticPreference string `json:"aestheticPreference" validate:"required"`
	LifestylePattern    string `json:"lifestylePattern" validate:"required"`
}

type MovieAnalysis struct {
	Title               string     `json:"title,omitempty"`
	Director            string     `json:"director,omitempty"`
	Year                FlexString `json:"year,omitempty"`
	Genres              []string   `json:"genres,omitempty"`
	Keywords            []string   `json:"keywords,omitempty"`
	Description         string     `json:"description,omitempty"`
	PsychologicalDriver string     `json:"psychologicalDriver" validate:"required"`
	EmotionalNeeds      string     `json:"emotionalNeeds" validate:"required"`
	CognitiveStyle      string     `json:"cognitiveStyle" validate:"required"`
	EscapismPattern     string     `json:"escapismPattern" validate:"required"`
}

type MusicAnalysis struct {
	Title              string   `json:"title,omitempty"`
	Artist             string   `json:"artist,omitempty"`
	Genre              string   `json:"genre,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	EmotionalResonance string   `json:"emotionalResonance" validate:"required"`
	MemoryAssociation  string   `json:"memoryAssociation" validate:"required"`
	EnergyAlignment    string   `json:"energyAlignment" validate:"required"`
	IdentityExpression string   `json:"identityExpression" validate:"required"`
}

type FragranceRecommendation struct {
	Name                    string     `json:"name" validate:"required"`
	Brand                   string     `json:"brand" validate:"required"`
	FragranceFamily         string     `json:"fragranceFamily" validate:"required"`
	TopNotes                []Note     `json:"topNotes" validate:"required,min=1,max=3,dive"`
	MiddleNotes             []Note     `json:"middleNotes" validate:"required,min=1,max=3,dive"`
	BaseNotes               []Note     `json:"baseNotes" validate:"required,min=1,max=3,dive"`
	Personality             string     `json:"personality"`
	Situation               string     `json:"situation"`
	Season                  string     `json:"season"`
	ReasonForRecommendation string     `json:"reasonForRecommendation" validate:"required"`
	PsychologicalMatch      string     `json:"psychologicalMatch"`
	RadarChart              RadarChart `json:"radarChart"`
	Recipe                  Recipe     `json:"recipe"`
}

// Note referencia una entrada de la base de notas. El modelo a veces manda solo el nombre.
type Note struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

// UnmarshalJSON acepta tanto {"id","name"} como un string suelto.
func (n *Note) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Name = strings.TrimSpace(s)
		return nil
	}
	type alias Note
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*n = Note(a)
	return nil
}

// RadarChart es el perfil sensorial de 10 ejes (1-10).
type RadarChart struct {
	Softness   Score `json:"softness" validate:"min=1,max=10"`
	Intensity  Score `json:"intensity" validate:"min=1,max=10"`
	Freshness  Score `json:"freshness" validate:"min=1,max=10"`
	Warmth     Score `json:"warmth" validate:"min=1,max=10"`
	Sweetness  Score `json:"sweetness" validate:"min=1,max=10"`
	Woodiness  Score `json:"woodiness" validate:"min=1,max=10"`
	Florality  Score `json:"florality" validate:"min=1,max=10"`
	Spiciness  Score `json:"spiciness" validate:"min=1,max=10"`
	Depth      Score `json:"depth" validate:"min=1,max=10"`
	Uniqueness Score `json:"uniqueness" validate:"min=1,max=10"`
}

// Axes devuelve punteros a los 10 ejes en orden de gráfico.
func (r *RadarChart) Axes() []*Score {
	return []*Score{
		&r.Softness, &r.Intensity, &r.Freshness, &r.Warmth, &r.Sweetness,
		&r.Woodiness, &r.Florality, &r.Spiciness, &r.Depth, &r.Uniqueness,
	}
}

// Recipe es la mezcla de tres componentes; la suma de ratios debe ser RecipeTotalGrams.
type Recipe struct {
	Components []RecipeComponent `json:"components" validate:"len=3,dive"`
	TotalGrams float64           `json:"totalGrams"`
}

const RecipeTotalGrams = 2.0

// SumTenths suma los ratios en décimas de gramo. Comparar contra RecipeTotalGrams*10, no en float.
func (r Recipe) SumTenths() int {
	n := 0
	for _, c := range r.Components {
		n += int(math.Round(c.Ratio * 10))
	}
	return n
}

// RecipeComponent guarda Ratio en gramos, en pasos de 0.1 g.
type RecipeComponent struct {
	NoteID string  `json:"noteId"`
	Name   string  `json:"name" validate:"required"`
	Ratio  float64 `json:"ratio" validate:"gt=0"`
}

// MarshalJSON escribe ratio con un solo decimal cuando ya está en pasos de 0.1 g (0.6, no 0.6000000000000001).
// Valores fuera de la grilla (crudos del modelo) salen con precisión completa.
func (c RecipeComponent) MarshalJSON() ([]byte, error) {
	ratio := "0.0"
	switch {
	case math.IsNaN(c.Ratio) || math.IsInf(c.Ratio, 0):
	case math.Abs(c.Ratio*10-math.Round(c.Ratio*10)) < 1e-9:
		ratio = strconv.FormatFloat(math.Round(c.Ratio*10)/10, 'f', 1, 64)
	default:
		ratio = strconv.FormatFloat(c.Ratio, 'f', -1, 64)
	}
	return json.Marshal(struct {
		NoteID string          `json:"noteId"`
		Name   string          `json:"name"`
		Ratio  json.RawMessage `json:"ratio"`
	}{c.NoteID, c.Name, json.RawMessage(ratio)})
}

type RecommendedMovie struct {
	Title    string     `json:"title" validate:"required"`
	Director string     `json:"director"`
	Year     FlexString `json:"year"`
	Genre    string     `json:"genre"`
	Reason   string     `json:"reason"`
	Poster   string     `json:"poster"`
}

type RecommendedSong struct {
	Title  string `json:"title" validate:"required"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Reason string `json:"reason"`
	Emoji  string `json:"emoji"`
}

type LifestyleAdvice struct {
	DailyRoutine      string `json:"dailyRoutine" validate:"required"`
	SocialInteraction string `json:"socialInteraction" validate:"required"`
	PersonalGrowth    string `json:"personalGrowth" validate:"required"`
	FragranceUsage    string `json:"fragranceUsage" validate:"required"`
}

// Score es un entero que tolera floats y strings numéricos del modelo.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*s = Score(math.Round(f))
	return nil
}

// FlexString acepta string o número (p.ej. "year": 2019).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

func (f FlexString) String() string { return string(f) }
