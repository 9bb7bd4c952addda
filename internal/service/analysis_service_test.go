package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"scent-llm/internal/domain"
	"scent-llm/internal/llm"
	"scent-llm/internal/reco"
	"scent-llm/internal/youtube"
)

func newTestAnalysisService(t *testing.T, client llm.LLMClient, searcher ContentSearcher, opts AnalysisOptions) *AnalysisService {
	t.Helper()
	if opts.BranchTimeout == 0 {
		opts.BranchTimeout = time.Second
	}
	return NewAnalysisService(client, searcher, nil, loadTestCatalog(t), opts, zap.NewNop())
}

func baseInput() domain.PreferenceInput {
	return domain.PreferenceInput{
		MovieGenres:        []string{"드라마", "스릴러"},
		MovieTitle:         "기생충",
		MovieDirector:      "봉준호",
		MusicTitle:         "밤편지",
		MusicArtist:        "아이유",
		LikedFragrances:    []string{"플로럴", "시트러스"},
		DislikedFragrances: []string{"우디"},
		EmotionalResponse:  "마음이 차분해져요",
	}
}

func TestAnalyzeHappyPathNormalizesOutput(t *testing.T) {
	client := &llm.MockClient{Response: "```json\n" + validAnalysisJSON + "\n```"}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

	out, err := svc.Analyze(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.ID == "" {
		t.Fatalf("expected analysis id")
	}
	if client.Calls() != 1 {
		t.Fatalf("expected exactly 1 model call, got %d", client.Calls())
	}

	flavors := svc.catalog.Flavors
	for _, fr := range out.Analysis.FragranceRecommendations {
		for _, layer := range [][]domain.Note{fr.TopNotes, fr.MiddleNotes, fr.BaseNotes} {
			if len(layer) == 0 {
				t.Fatalf("expected every layer to keep at least one note")
			}
			for _, n := range layer {
				note, ok := flavors.Resolve(n.ID, n.Name)
				if !ok {
					t.Fatalf("expected note %q to exist in flavor db", n.ID)
				}
				if note.Family == "우디" {
					t.Fatalf("disliked family leaked into notes: %+v", note)
				}
			}
		}
		for _, axis := range fr.RadarChart.Axes() {
			if *axis < 1 || *axis > 10 {
				t.Fatalf("radar value out of range: %d", *axis)
			}
		}
		for _, c := range fr.Recipe.Components {
			note, ok := flavors.Resolve(c.NoteID, c.Name)
			if !ok || note.Family == "우디" {
				t.Fatalf("unexpected recipe component %+v", c)
			}
		}
		if got := fr.Recipe.SumTenths(); got != 20 {
			t.Fatalf("expected recipe sum of 20 tenths, got %d", got)
		}
	}

	fr := out.Analysis.FragranceRecommendations[0]
	if fr.RadarChart.Softness != 10 || fr.RadarChart.Intensity != 1 || fr.RadarChart.Warmth != 7 {
		t.Fatalf("unexpected radar normalization: %+v", fr.RadarChart)
	}
	if len(fr.MiddleNotes) != 1 || fr.MiddleNotes[0].ID != "fl-rose" {
		t.Fatalf("expected middle layer backfilled from liked family, got %+v", fr.MiddleNotes)
	}
}

func TestAnalyzeClampsLowRadarAxis(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{name: "zero", value: "0"},
		{name: "rounds to zero", value: "0.4"},
		{name: "negative", value: "-3"},
		{name: "string zero", value: `"0"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(validAnalysisJSON, `"spiciness": 2`, `"spiciness": `+tc.value, 1)
			client := &llm.MockClient{Response: body}
			svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

			out, err := svc.Analyze(context.Background(), baseInput())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := out.Analysis.FragranceRecommendations[0].RadarChart.Spiciness; got != 1 {
				t.Fatalf("expected spiciness clamped to 1, got %d", got)
			}
		})
	}
}

func TestAnalyzeMissingRadarAxis(t *testing.T) {
	for _, body := range []string{
		strings.Replace(validAnalysisJSON, `"spiciness": 2, `, "", 1),
		strings.Replace(validAnalysisJSON, `"spiciness": 2`, `"spiciness": null`, 1),
	} {
		client := &llm.MockClient{Response: body}
		svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

		_, err := svc.Analyze(context.Background(), baseInput())
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
		var rerr *ResponseError
		if !errors.As(err, &rerr) || !strings.Contains(rerr.Debug, "radarChart.spiciness:required") {
			t.Fatalf("expected missing axis in debug, got %v", err)
		}
	}
}

func TestAnalyzePromptCarriesUserDataAndFlavorTable(t *testing.T) {
	client := &llm.MockClient{Response: validAnalysisJSON}
	searcher := &stubContentSearcher{
		fragrance: []domain.SearchResult{{Title: "조향 기초", Text: strings.Repeat("노트 조합 ", 40)}},
	}
	svc := newTestAnalysisService(t, client, searcher, AnalysisOptions{})

	if _, err := svc.Analyze(context.Background(), baseInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	prompt := client.Prompts[0]
	for _, want := range []string{"기생충 (감독: 봉준호)", "밤편지 - 아이유", "비선호 향 계열: 우디", "fl-rose", "조향 기초", "전문 분석 도구"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
}

func TestAnalyzeRejectsOverlappingFamilies(t *testing.T) {
	client := &llm.MockClient{Response: validAnalysisJSON}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

	in := baseInput()
	in.DislikedFragrances = []string{"플로럴"}
	_, err := svc.Analyze(context.Background(), in)
	if !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences, got %v", err)
	}
	if client.Calls() != 0 {
		t.Fatalf("expected no model call")
	}
}

func TestAnalyzeNonJSONResponse(t *testing.T) {
	client := &llm.MockClient{Response: "죄송합니다, 지금은 분석할 수 없습니다."}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

	_, err := svc.Analyze(context.Background(), baseInput())
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}
	var rerr *ResponseError
	if !errors.As(err, &rerr) || !strings.Contains(rerr.Debug, "죄송합니다") {
		t.Fatalf("expected raw text in debug, got %v", err)
	}
}

func TestAnalyzeInvalidResponse(t *testing.T) {
	client := &llm.MockClient{Response: `{"personalityAnalysis": {"corePersonality": "x"}}`}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

	_, err := svc.Analyze(context.Background(), baseInput())
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	var rerr *ResponseError
	if !errors.As(err, &rerr) || !strings.Contains(rerr.Debug, "fragranceRecommendations") {
		t.Fatalf("expected failing fields in debug, got %v", err)
	}
}

func TestAnalyzeLLMError(t *testing.T) {
	client := &llm.MockClient{Err: errors.New("boom")}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{})

	_, err := svc.Analyze(context.Background(), baseInput())
	if err == nil || errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("expected generic llm error, got %v", err)
	}
}

type unconfiguredLLM struct{ llm.MockClient }

func (*unconfiguredLLM) Configured() bool { return false }

func TestAnalyzeLLMNotConfigured(t *testing.T) {
	svc := newTestAnalysisService(t, &unconfiguredLLM{}, &stubContentSearcher{}, AnalysisOptions{})

	_, err := svc.Analyze(context.Background(), baseInput())
	if !errors.Is(err, ErrLLMNotConfigured) {
		t.Fatalf("expected ErrLLMNotConfigured, got %v", err)
	}
}

func TestAnalyzeReportsDegradedBranches(t *testing.T) {
	client := &llm.MockClient{Response: validAnalysisJSON}
	searcher := &stubContentSearcher{movieErr: errSearchDown, fragErr: errSearchDown}
	svc := newTestAnalysisService(t, client, searcher, AnalysisOptions{})

	out, err := svc.Analyze(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("expected branch failures to be swallowed, got %v", err)
	}
	got := strings.Join(out.Degraded, ",")
	if !strings.Contains(got, BranchMovieSearch) || !strings.Contains(got, BranchFragranceKnowledge) {
		t.Fatalf("expected degraded movie and fragrance branches, got %v", out.Degraded)
	}
	if strings.Contains(got, BranchMusicSearch) || strings.Contains(got, BranchLibraryInfo) {
		t.Fatalf("unexpected degraded branches: %v", out.Degraded)
	}
}

func TestAnalyzeUsesPoolRecommendations(t *testing.T) {
	client := &llm.MockClient{Response: validAnalysisJSON}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{UsePool: true})

	out, err := svc.Analyze(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	movies := out.Analysis.RecommendedMovies
	if len(movies) != 2 {
		t.Fatalf("expected 2 pool movies, got %d", len(movies))
	}
	for _, m := range movies {
		if m.Title == "기생충" {
			t.Fatalf("expected user's own movie to be excluded")
		}
		if m.Reason != reco.DefaultMovieReason {
			t.Fatalf("expected default reason, got %q", m.Reason)
		}
	}
	for _, s := range out.Analysis.RecommendedSongs {
		if s.Title == "밤편지" {
			t.Fatalf("expected user's own song to be excluded")
		}
	}
}

func TestAnalyzeReasonGenerationKeepsDefaultOnFailure(t *testing.T) {
	client := &llm.MockClient{Responses: []string{validAnalysisJSON, "가족의 의미를 다시 보게 하는 영화", "", "", ""}}
	svc := newTestAnalysisService(t, client, &stubContentSearcher{}, AnalysisOptions{UsePool: true, GenerateReasons: true})

	out, err := svc.Analyze(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.Calls() != 5 {
		t.Fatalf("expected 1 analysis + 4 reason calls, got %d", client.Calls())
	}
	if got := out.Analysis.RecommendedMovies[0].Reason; got != "가족의 의미를 다시 보게 하는 영화" {
		t.Fatalf("expected generated reason, got %q", got)
	}
	if got := out.Analysis.RecommendedMovies[1].Reason; got != reco.DefaultMovieReason {
		t.Fatalf("expected default reason kept on empty answer, got %q", got)
	}
}

func TestAnalyzeCorrectsMovieFacts(t *testing.T) {
	long := " 영화 정보" + strings.Repeat(" 상세 설명", 30)
	searcher := &stubContentSearcher{movie: domain.MovieSearchData{
		BasicInfo: []domain.SearchResult{{
			Title: "기생충 (2019)",
			Text:  "봉준호 감독의 기생충은 2019년 5월 개봉한 드라마 스릴러 영화이다." + long,
		}},
	}}
	client := &llm.MockClient{Response: validAnalysisJSON}
	svc := newTestAnalysisService(t, client, searcher, AnalysisOptions{})

	out, err := svc.Analyze(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ma := out.Analysis.MovieAnalysis
	if ma.Year != "2019" {
		t.Fatalf("expected year 2019, got %q", ma.Year)
	}
	if strings.Join(ma.Genres, ",") != "드라마,스릴러" {
		t.Fatalf("expected genres from sources, got %v", ma.Genres)
	}
	if ma.Director != "봉준호" {
		t.Fatalf("expected director filled from input, got %q", ma.Director)
	}
	if ma.Description == "" {
		t.Fatalf("expected description fallback from sources")
	}
}

func TestAnalyzeResolvesYouTubeWhenNoTitle(t *testing.T) {
	searcher := &stubContentSearcher{}
	client := &llm.MockClient{Response: validAnalysisJSON}
	svc := NewAnalysisService(client, searcher, &stubVideoResolver{err: youtube.ErrNotConfigured}, loadTestCatalog(t), AnalysisOptions{BranchTimeout: time.Second}, zap.NewNop())
	searcher.lookupArtist, searcher.lookupTitle = "혁오", "TOMBOY"

	in := baseInput()
	in.MusicTitle, in.MusicArtist = "", ""
	in.MusicYoutubeURL = "https://youtu.be/abc123"
	if _, err := svc.Analyze(context.Background(), in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	q := searcher.queries()
	if len(q) != 1 || q[0] != "TOMBOY|혁오" {
		t.Fatalf("expected music search from web lookup, got %v", q)
	}
	if !strings.Contains(client.Prompts[0], "TOMBOY - 혁오") {
		t.Fatalf("expected resolved song in prompt")
	}
}

func TestAnalyzePrefersVideoAPI(t *testing.T) {
	searcher := &stubContentSearcher{lookupErr: errSearchDown}
	client := &llm.MockClient{Response: validAnalysisJSON}
	videos := &stubVideoResolver{info: &domain.VideoInfo{Title: "밤편지", Artist: "아이유"}}
	svc := NewAnalysisService(client, searcher, videos, loadTestCatalog(t), AnalysisOptions{BranchTimeout: time.Second}, zap.NewNop())

	in := baseInput()
	in.MusicTitle, in.MusicArtist = "", ""
	in.YoutubeLink = "https://www.youtube.com/watch?v=abc123"
	out, err := svc.Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q := searcher.queries(); len(q) != 1 || q[0] != "밤편지|아이유" {
		t.Fatalf("expected music search from video api, got %v", q)
	}
	if len(out.Degraded) != 0 {
		t.Fatalf("expected no degraded branches, got %v", out.Degraded)
	}
}
