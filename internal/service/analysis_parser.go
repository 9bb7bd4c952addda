package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"scent-llm/internal/domain"
)

const debugRawLimit = 500

var analysisValidator = newAnalysisValidator()

func newAnalysisValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeAnalysis limpia fences, aísla el primer objeto JSON y lo decodifica.
func DecodeAnalysis(raw string) (domain.AnalysisResult, error) {
	cleaned := CleanLLMJSONResponse(raw)
	obj := extractFirstJSONObject(cleaned)
	if obj == "" {
		obj = extractFirstJSONObject(raw)
	}
	if obj == "" {
		return domain.AnalysisResult{}, &ResponseError{
			Kind:  ErrUnparseableResponse,
			Debug: truncateRunes(raw, debugRawLimit),
			Err:   errors.New("no json object found"),
		}
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(obj), &res); err != nil {
		return domain.AnalysisResult{}, &ResponseError{
			Kind:  ErrUnparseableResponse,
			Debug: truncateRunes(raw, debugRawLimit),
			Err:   err,
		}
	}
	if err := checkRadarAxes([]byte(obj)); err != nil {
		return domain.AnalysisResult{}, err
	}
	return res, nil
}

var radarAxisNames = []string{
	"softness", "intensity", "freshness", "warmth", "sweetness",
	"woodiness", "florality", "spiciness", "depth", "uniqueness",
}

// checkRadarAxes exige los 10 ejes en cada radarChart. Score no distingue ausente de 0.
func checkRadarAxes(obj []byte) error {
	var shape struct {
		FragranceRecommendations []struct {
			RadarChart map[string]json.RawMessage `json:"radarChart"`
		} `json:"fragranceRecommendations"`
	}
	if err := json.Unmarshal(obj, &shape); err != nil {
		return &ResponseError{Kind: ErrUnparseableResponse, Debug: truncateRunes(string(obj), debugRawLimit), Err: err}
	}
	var missing []string
	for i, fr := range shape.FragranceRecommendations {
		for _, axis := range radarAxisNames {
			v, ok := fr.RadarChart[axis]
			if !ok || strings.TrimSpace(string(v)) == "null" {
				missing = append(missing, fmt.Sprintf("fragranceRecommendations[%d].radarChart.%s:required", i, axis))
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ResponseError{
		Kind:  ErrInvalidResponse,
		Debug: strings.Join(missing, ", "),
		Err:   fmt.Errorf("%d radar axis value(s) missing", len(missing)),
	}
}

// ValidateAnalysis aplica las reglas de struct tags y lista los campos que fallan.
func ValidateAnalysis(res *domain.AnalysisResult) error {
	err := analysisValidator.Struct(res)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ResponseError{Kind: ErrInvalidResponse, Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, fmt.Sprintf("%s:%s", ns, fe.Tag()))
	}
	return &ResponseError{
		Kind:  ErrInvalidResponse,
		Debug: strings.Join(fields, ", "),
		Err:   fmt.Errorf("%d field(s) failed validation", len(fields)),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
