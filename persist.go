package tensorhub

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// modelFile is the artifact file name inside a version
// directory.
const modelFile = "model"

// A SavedModel bundles everything needed to run
// inference: the trained classifier plus the vocabulary
// and class index it was trained with.
type SavedModel struct {
	Vocab   *Vocabulary
	Classes *ClassIndex
	Model   *Classifier
}

// SaveVersion writes a self-contained snapshot under
// root/<version>/.
//
// It fails if the version directory already exists;
// callers should pick versions with NextVersion.
func SaveVersion(root string, version int, m *SavedModel) error {
	dir := filepath.Join(root, strconv.Itoa(version))
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("save model: version %d already exists at %s", version, dir)
	} else if !os.IsNotExist(err) {
		return essentials.AddCtx("save model", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return essentials.AddCtx("save model", err)
	}
	err := serializer.SaveAny(filepath.Join(dir, modelFile), m.Vocab, m.Classes, m.Model)
	if err != nil {
		return essentials.AddCtx("save model", err)
	}
	return nil
}

// LoadVersion reads the snapshot under root/<version>/.
func LoadVersion(root string, version int) (*SavedModel, error) {
	path := filepath.Join(root, strconv.Itoa(version), modelFile)
	var res SavedModel
	err := serializer.LoadAny(path, &res.Vocab, &res.Classes, &res.Model)
	if err != nil {
		return nil, essentials.AddCtx("load model", err)
	}
	return &res, nil
}

// LoadLatest loads the highest saved version under root.
func LoadLatest(root string) (*SavedModel, error) {
	next, err := NextVersion(root)
	if err != nil {
		return nil, err
	}
	if next == 1 {
		return nil, fmt.Errorf("load model: no versions under %s", root)
	}
	return LoadVersion(root, next-1)
}

// NextVersion returns one past the highest numeric
// version directory under root, or 1 if none exist.
func NextVersion(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return 1, nil
	} else if err != nil {
		return 0, essentials.AddCtx("next version", err)
	}
	max := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if v, err := strconv.Atoi(entry.Name()); err == nil && v > max {
			max = v
		}
	}
	return max + 1, nil
}
