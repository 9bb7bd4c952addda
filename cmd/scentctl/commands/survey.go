package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scent-llm/internal/catalog"
	"scent-llm/internal/domain"
	"scent-llm/internal/llm"
	"scent-llm/internal/search"
	"scent-llm/internal/service"
	"scent-llm/internal/youtube"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Answer the preference survey in the terminal and print the analysis",
	Long: `survey asks the same questions as the web survey, runs the full analysis
pipeline (search branches, model call, post-processing) and prints the
resulting JSON. Uses GEMINI_API_KEY, EXA_API_KEY and YOUTUBE_API_KEY from
the environment.`,
	RunE: runSurvey,
}

func init() {
	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load embedded catalog: %w", err)
	}

	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	in, err := p.askPreferences()
	if err != nil {
		return err
	}
	if overlap := in.OverlappingFragrances(); len(overlap) > 0 {
		return fmt.Errorf("좋아하는 향과 싫어하는 향이 겹칩니다: %s", strings.Join(overlap, ", "))
	}

	svc := newSurveyAnalysis(cat)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	fmt.Fprintln(p.out, "\n분석 중입니다...")
	out, err := svc.Analyze(ctx, in)
	if err != nil {
		var rerr *service.ResponseError
		if errors.As(err, &rerr) {
			logger.Warn("invalid model response", zap.String("debug", rerr.Debug))
		}
		return fmt.Errorf("analyze: %w", err)
	}
	if len(out.Degraded) > 0 {
		fmt.Fprintf(p.out, "(일부 검색 실패: %s)\n", strings.Join(out.Degraded, ", "))
	}

	pretty, err := json.MarshalIndent(out.Analysis, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, string(pretty))
	return nil
}

// newSurveyAnalysis arma el pipeline sin Redis ni Postgres: el CLI corre suelto.
func newSurveyAnalysis(cat *catalog.Catalog) *service.AnalysisService {
	searcher := search.NewExaClient(cfg.ExaBaseURL, cfg.ExaAPIKey, cfg.SearchTimeout)
	searchSvc := search.NewService(searcher, logger)

	gemini := llm.NewGeminiClient(llm.GeminiOptions{
		BaseURL:         cfg.GeminiBaseURL,
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
	}, logger)
	videos := youtube.NewClient(cfg.YoutubeBaseURL, cfg.YoutubeAPIKey, cfg.SearchTimeout)

	return service.NewAnalysisService(gemini, searchSvc, videos, cat, service.AnalysisOptions{
		BranchTimeout:   cfg.SearchTimeout,
		UsePool:         cfg.RecoUsePool,
		GenerateReasons: cfg.RecoGenerateReasons,
	}, logger)
}

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(in), out: out}
}

// ask lee una línea; EOF con texto parcial cuenta como respuesta.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) askList(question string) ([]string, error) {
	answer, err := p.ask(question)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func (p *prompter) askPreferences() (domain.PreferenceInput, error) {
	var in domain.PreferenceInput
	var err error

	fmt.Fprintln(p.out, "===== 향 취향 설문 =====")
	for len(in.MovieGenres) == 0 {
		if in.MovieGenres, err = p.askList("좋아하는 영화 장르 (쉼표로 구분): "); err != nil {
			return in, err
		}
		if len(in.MovieGenres) == 0 {
			fmt.Fprintln(p.out, "장르를 하나 이상 입력해주세요.")
		}
	}

	fields := []struct {
		question string
		dst      *string
	}{
		{"좋아하는 영화 제목 (선택): ", &in.MovieTitle},
		{"감독 (선택): ", &in.MovieDirector},
		{"그 영화가 의미하는 것 (선택): ", &in.MovieMeaning},
		{"좋아하는 음악 제목 (선택): ", &in.MusicTitle},
		{"아티스트 (선택): ", &in.MusicArtist},
		{"YouTube 링크 (선택): ", &in.MusicYoutubeURL},
		{"그 음악이 의미하는 것 (선택): ", &in.MusicMeaning},
	}
	for _, f := range fields {
		if *f.dst, err = p.ask(f.question); err != nil {
			return in, err
		}
	}

	fmt.Fprintf(p.out, "향 계열: %s\n", strings.Join(catalog.Families, ", "))
	if in.LikedFragrances, err = p.askFamilies("좋아하는 향 계열 (쉼표로 구분): "); err != nil {
		return in, err
	}
	if in.DislikedFragrances, err = p.askFamilies("싫어하는 향 계열 (쉼표로 구분): "); err != nil {
		return in, err
	}

	if in.EmotionalResponse, err = p.ask("요즘 느끼는 감정이나 원하는 분위기 (선택): "); err != nil {
		return in, err
	}
	if in.PersonalDescription, err = p.ask("자신을 한 문장으로 표현한다면 (선택): "); err != nil {
		return in, err
	}
	return in, nil
}

// askFamilies descarta las familias que no existen y avisa.
func (p *prompter) askFamilies(question string) ([]string, error) {
	list, err := p.askList(question)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, f := range list {
		if !catalog.IsFamily(f) {
			fmt.Fprintf(p.out, "알 수 없는 향 계열은 무시합니다: %s\n", f)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
