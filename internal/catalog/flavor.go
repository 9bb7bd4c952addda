package catalog

import (
	"fmt"
	"strings"

	"scent-llm/internal/domain"
)

// FlavorDB indexa las notas por id y por nombre (ko/en, sin mayúsculas).
type FlavorDB struct {
	notes  []domain.FlavorNote
	byID   map[string]domain.FlavorNote
	byName map[string]domain.FlavorNote
}

func NewFlavorDB(notes []domain.FlavorNote) (*FlavorDB, error) {
	db := &FlavorDB{
		notes:  notes,
		byID:   make(map[string]domain.FlavorNote, len(notes)),
		byName: make(map[string]domain.FlavorNote, len(notes)*2),
	}
	for _, n := range notes {
		if n.ID == "" {
			return nil, fmt.Errorf("flavor note without id: %q", n.Name)
		}
		if _, dup := db.byID[n.ID]; dup {
			return nil, fmt.Errorf("duplicate flavor note id %s", n.ID)
		}
		if !IsFamily(n.Family) {
			return nil, fmt.Errorf("flavor note %s: unknown family %q", n.ID, n.Family)
		}
		db.byID[n.ID] = n
		db.byName[nameKey(n.Name)] = n
		if n.NameEn != "" {
			db.byName[nameKey(n.NameEn)] = n
		}
	}
	return db, nil
}

func nameKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Notes devuelve todas las notas en el orden del dataset.
func (db *FlavorDB) Notes() []domain.FlavorNote {
	out := make([]domain.FlavorNote, len(db.notes))
	copy(out, db.notes)
	return out
}

// Resolve busca primero por id y después por nombre.
func (db *FlavorDB) Resolve(id, name string) (domain.FlavorNote, bool) {
	if n, ok := db.byID[strings.TrimSpace(id)]; ok {
		return n, true
	}
	n, ok := db.byName[nameKey(name)]
	return n, ok
}

// Substitute elige una nota de la capa pedida fuera de las familias excluidas.
// Prefiere las familias de preferred (en su orden) y evita ids ya usados.
func (db *FlavorDB) Substitute(layer string, excluded, preferred []string, used map[string]bool) (domain.FlavorNote, bool) {
	ex := make(map[string]bool, len(excluded))
	for _, f := range excluded {
		ex[strings.TrimSpace(f)] = true
	}
	pick := func(family string) (domain.FlavorNote, bool) {
		for _, n := range db.notes {
			if n.Layer != layer || ex[n.Family] || used[n.ID] {
				continue
			}
			if family != "" && n.Family != family {
				continue
			}
			return n, true
		}
		return domain.FlavorNote{}, false
	}
	for _, f := range preferred {
		if ex[strings.TrimSpace(f)] {
			continue
		}
		if n, ok := pick(strings.TrimSpace(f)); ok {
			return n, true
		}
	}
	return pick("")
}

// PromptTable renderiza la base como tabla compacta para el prompt.
func (db *FlavorDB) PromptTable() string {
	var sb strings.Builder
	sb.WriteString("id | 이름 | 계열 | 레이어\n")
	for _, n := range db.notes {
		fmt.Fprintf(&sb, "%s | %s(%s) | %s | %s\n", n.ID, n.Name, n.NameEn, n.Family, n.Layer)
	}
	return sb.String()
}
