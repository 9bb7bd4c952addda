package service

import (
	"fmt"
	"strings"

	"scent-llm/internal/domain"
)

const noInfo = "정보 없음"

// promptContext es todo lo que entra al prompt principal además de la encuesta.
type promptContext struct {
	SearchContext  string
	LibraryContext string
	FlavorTable    string
}

const analysisPersona = `당신은 세계적인 향수 전문가이자 심리 분석가입니다. 20년 이상의 경험을 바탕으로 다음 사용자의 깊이 있는 분석을 진행해주세요.
`

const analysisGuidelines = `[분석 요구사항]
다음 JSON 구조로 정확히 응답해주세요. 절대 마크다운이나 추가 텍스트 없이 순수 JSON만 반환하세요.

영화 장르 분석 시 고려사항:
- 코미디: 사회적 연결 욕구, 긍정적 에너지 추구, 스트레스 해소 패턴
- 로맨스: 감정적 깊이, 이상화 경향, 인간관계에 대한 믿음
- 공포/스릴러: 아드레날린 추구, 통제 욕구, 현실 도피 성향
- 판타지/SF: 상상력, 현실 불만족, 미래 지향적 사고
- 뮤지컬: 감성적 표현 욕구, 예술적 성향, 집단 소속감
- 느와르/갱스터: 복잡성 추구, 도덕적 모호함 수용, 권력에 대한 관심

음악 분석 시 고려사항:
- 장르별 심리적 특성 (팝, 록, 발라드, 힙합, 클래식 등)
- 가사의 감정적 메시지
- 리듬과 멜로디가 주는 에너지
- 개인적 기억과의 연관성

향수 추천 시 규칙:
- 사용자가 싫어하는 향 계열(%s)의 노트는 절대 사용하지 마세요.
- 노트는 반드시 아래 [노트 데이터베이스]의 id와 이름을 그대로 사용하세요.
- radarChart의 10개 축은 모두 1~10 사이의 정수입니다.
- recipe는 정확히 3개의 노트로 구성하고 ratio(그램) 합계는 2.0입니다.
- 실제 존재하는 향수 브랜드와 제품명을 사용하세요.
`

const analysisSchema = `{
  "personalityAnalysis": {
    "corePersonality": "핵심 성격 특성 (50자 이내)",
    "emotionalDepth": "감정적 깊이와 처리 방식 (60자 이내)",
    "socialTendency": "사회적 성향과 관계 패턴 (60자 이내)",
    "aestheticPreference": "미적 취향과 감각적 선호 (60자 이내)",
    "lifestylePattern": "라이프스타일 패턴과 가치관 (60자 이내)"
  },
  "movieAnalysis": {
    "title": "분석한 영화 제목",
    "director": "감독",
    "year": "개봉 연도",
    "genres": ["장르"],
    "keywords": ["테마/분위기 키워드 5개"],
    "description": "줄거리 요약 (150자 이내)",
    "psychologicalDriver": "영화 선택의 심리적 동기 (80자 이내)",
    "emotionalNeeds": "영화를 통해 충족하려는 감정적 욕구 (80자 이내)",
    "cognitiveStyle": "인지 스타일과 정보 처리 방식 (80자 이내)",
    "escapismPattern": "현실 도피 패턴과 이상향 (80자 이내)"
  },
  "musicAnalysis": {
    "title": "분석한 곡 제목",
    "artist": "아티스트",
    "genre": "장르",
    "keywords": ["무드 키워드 5개"],
    "emotionalResonance": "음악과의 감정적 공명 양상 (80자 이내)",
    "memoryAssociation": "기억과 음악의 연관성 패턴 (80자 이내)",
    "energyAlignment": "음악 에너지와 개인 에너지의 정렬 (80자 이내)",
    "identityExpression": "음악을 통한 정체성 표현 방식 (80자 이내)"
  },
  "fragranceRecommendations": [
    {
      "name": "실제 향수명",
      "brand": "실제 브랜드명",
      "fragranceFamily": "향 계열",
      "topNotes": [{"id": "노트 id", "name": "노트 이름"}],
      "middleNotes": [{"id": "노트 id", "name": "노트 이름"}],
      "baseNotes": [{"id": "노트 id", "name": "노트 이름"}],
      "personality": "이 향수가 표현하는 성격 (40자 이내)",
      "situation": "추천 상황 (30자 이내)",
      "season": "추천 계절 (20자 이내)",
      "reasonForRecommendation": "추천 이유와 심리적 매칭 (100자 이내)",
      "psychologicalMatch": "심리적 일치도 설명 (80자 이내)",
      "radarChart": {"softness": 1, "intensity": 1, "freshness": 1, "warmth": 1, "sweetness": 1, "woodiness": 1, "florality": 1, "spiciness": 1, "depth": 1, "uniqueness": 1},
      "recipe": {"components": [{"noteId": "노트 id", "name": "노트 이름", "ratio": 0.8}], "totalGrams": 2.0}
    }
  ],
  "recommendedMovies": [
    {"title": "영화 제목", "director": "감독", "year": "연도", "genre": "장르", "reason": "추천 이유", "poster": "🎬"}
  ],
  "recommendedSongs": [
    {"title": "곡 제목", "artist": "아티스트", "album": "앨범", "reason": "추천 이유", "emoji": "🎵"}
  ],
  "lifestyleAdvice": {
    "dailyRoutine": "일상 루틴에 대한 조언 (100자 이내)",
    "socialInteraction": "사회적 상호작용 방식 조언 (100자 이내)",
    "personalGrowth": "개인 성장을 위한 제안 (100자 이내)",
    "fragranceUsage": "향수 사용법과 타이밍 조언 (100자 이내)"
  }
}`

// buildAnalysisPrompt arma el prompt principal: persona, datos del usuario, contexto externo, base de notas y esquema.
func buildAnalysisPrompt(in domain.PreferenceInput, music musicRef, pc promptContext) string {
	var sb strings.Builder
	sb.WriteString(analysisPersona)
	sb.WriteString("\n[사용자 데이터]\n")
	sb.WriteString(fmt.Sprintf("선호 영화 장르: %s\n", joinOr(in.MovieGenres)))
	sb.WriteString(fmt.Sprintf("좋아하는 영화: %s\n", movieLine(in)))
	sb.WriteString(fmt.Sprintf("좋아하는 음악: %s\n", musicLine(music)))
	sb.WriteString(fmt.Sprintf("선호 향 계열: %s\n", joinOr(in.LikedFragrances)))
	sb.WriteString(fmt.Sprintf("비선호 향 계열: %s\n", joinOr(in.DislikedFragrances)))
	sb.WriteString(fmt.Sprintf("감정적 반응: %s\n", orNoInfo(in.EmotionalResponse)))
	sb.WriteString(fmt.Sprintf("음악의 개인적 의미: %s\n", orNoInfo(in.MusicMeaning)))
	sb.WriteString(fmt.Sprintf("영화 장르의 개인적 의미: %s\n", orNoInfo(in.MovieMeaning)))
	sb.WriteString(fmt.Sprintf("자기 표현: %s\n\n", orNoInfo(in.PersonalDescription)))

	if s := strings.TrimSpace(pc.SearchContext); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}
	if s := strings.TrimSpace(pc.LibraryContext); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf(analysisGuidelines, joinOr(in.DislikedFragrances)))
	if t := strings.TrimSpace(pc.FlavorTable); t != "" {
		sb.WriteString("\n[노트 데이터베이스]\n")
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(analysisSchema)
	sb.WriteString("\n")
	return sb.String()
}

const movieReasonPrompt = `당신은 영화 큐레이터입니다. 아래 사용자 취향을 바탕으로 영화 "%s"(%s)를 추천하는 이유를 한국어 한 문장(60자 이내)으로 작성하세요.
사용자 선호 장르: %s
사용자 키워드: %s
추천 영화 장르: %s
설명이나 따옴표 없이 문장만 출력하세요.`

const songReasonPrompt = `당신은 음악 큐레이터입니다. 아래 사용자 취향을 바탕으로 "%s" - %s 를 추천하는 이유를 한국어 한 문장(60자 이내)으로 작성하세요.
사용자 음악 장르: %s
사용자 무드 키워드: %s
설명이나 따옴표 없이 문장만 출력하세요.`

func buildMovieReasonPrompt(m domain.RecommendedMovie, prefGenres, keywords []string) string {
	return fmt.Sprintf(movieReasonPrompt, m.Title, orNoInfo(m.Director), joinOr(prefGenres), joinOr(keywords), orNoInfo(m.Genre))
}

func buildSongReasonPrompt(s domain.RecommendedSong, genre string, keywords []string) string {
	return fmt.Sprintf(songReasonPrompt, s.Title, orNoInfo(s.Artist), orNoInfo(genre), joinOr(keywords))
}

func movieLine(in domain.PreferenceInput) string {
	title := strings.TrimSpace(in.MovieTitle)
	if title == "" {
		return noInfo
	}
	if d := strings.TrimSpace(in.MovieDirector); d != "" {
		return fmt.Sprintf("%s (감독: %s)", title, d)
	}
	return title
}

func musicLine(m musicRef) string {
	if m.Title == "" {
		return noInfo
	}
	if m.Artist != "" {
		return m.Title + " - " + m.Artist
	}
	return m.Title
}

func joinOr(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	if len(cleaned) == 0 {
		return noInfo
	}
	return strings.Join(cleaned, ", ")
}

func orNoInfo(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return noInfo
	}
	return s
}

// cleanReason limpia la respuesta corta del modelo para usarla como motivo.
func cleanReason(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.Trim(s, `"'“”「」`)
	return truncateRunes(strings.TrimSpace(s), 120)
}
