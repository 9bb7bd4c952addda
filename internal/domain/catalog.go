package domain

// RecoMovieItem es una entrada del pool fijo de películas.
type RecoMovieItem struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Director string   `json:"director" yaml:"director"`
	Year     int      `json:"year" yaml:"year"`
	Genres   []string `json:"genres" yaml:"genres"`     // 1-3
	Keywords []string `json:"keywords" yaml:"keywords"` // 5-10, temas y mood
	Emoji    string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

// RecoMusicItem es una entrada del pool fijo de canciones.
type RecoMusicItem struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Artist   string   `json:"artist" yaml:"artist"`
	Album    string   `json:"album,omitempty" yaml:"album,omitempty"`
	Year     int      `json:"year" yaml:"year"`
	Genres   []string `json:"genres" yaml:"genres"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Emoji    string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

const (
	NoteLayerTop    = "top"
	NoteLayerMiddle = "middle"
	NoteLayerBase   = "base"
)

// FlavorNote es un ingrediente de la base de notas que se inyecta en el prompt.
type FlavorNote struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	NameEn string `json:"nameEn" yaml:"nameEn"`
	Family string `json:"family" yaml:"family"`
	Layer  string `json:"layer" yaml:"layer"`
}
