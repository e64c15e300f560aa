package scenefile

import (
	"os"

	"github.com/chazu/hangerlink/pkg/scene"
)

// Sync copies the hidden elements, hidden categories and locked categories
// of every view back into the file representation.
func (s *Scene) Sync() {
	for i := range s.File.Views {
		vs := &s.File.Views[i]
		view, ok := s.Doc.View(scene.ViewID(vs.ID))
		if !ok {
			continue
		}
		hidden := view.HiddenElements()
		vs.Hidden = make([]int64, len(hidden))
		for j, id := range hidden {
			vs.Hidden[j] = int64(id)
		}
		vs.HiddenCategories = categoryNames(view.HiddenCategories())
		vs.LockedCategories = categoryNames(view.LockedCategories())
	}
}

// Save syncs hidden state and writes the scene to path.
func (s *Scene) Save(path string) (err error) {
	s.Sync()
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(out, s.File)
}

func categoryNames(cs []scene.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
