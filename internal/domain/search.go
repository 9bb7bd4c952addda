package domain

// SearchResult es un documento devuelto por la API de búsqueda.
type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Text          string `json:"text"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

type MovieSearchData struct {
	BasicInfo []SearchResult `json:"basicInfo"`
	Reviews   []SearchResult `json:"reviews"`
	Analysis  []SearchResult `json:"analysis"`
}

// Empty indica si ninguna sección trajo resultados.
func (m MovieSearchData) Empty() bool {
	return len(m.BasicInfo) == 0 && len(m.Reviews) == 0 && len(m.Analysis) == 0
}

type MusicSearchData struct {
	BasicInfo  []SearchResult `json:"basicInfo"`
	Lyrics     []SearchResult `json:"lyrics"`
	Analysis   []SearchResult `json:"analysis"`
	ArtistInfo []SearchResult `json:"artistInfo"`
}

func (m MusicSearchData) Empty() bool {
	return len(m.BasicInfo) == 0 && len(m.Lyrics) == 0 && len(m.Analysis) == 0 && len(m.ArtistInfo) == 0
}

// MovieFacts son los metadatos inferidos de los snippets; todo es opcional.
type MovieFacts struct {
	Year        string   `json:"year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Description string   `json:"description,omitempty"`
}

// LibraryInfo describe una herramienta de análisis usada como contexto del prompt.
type LibraryInfo struct {
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Documentation string `json:"documentation" yaml:"documentation"`
}

type LibraryContext struct {
	Music     []LibraryInfo `json:"music" yaml:"music"`
	Movie     []LibraryInfo `json:"movie" yaml:"movie"`
	Fragrance []LibraryInfo `json:"fragrance" yaml:"fragrance"`
}

// VideoInfo es la metadata mínima de un video de YouTube.
type VideoInfo struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}
