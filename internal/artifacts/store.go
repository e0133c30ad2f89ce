package artifacts

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"carprice/domain/model"
	"carprice/internal/errors"
	"carprice/internal/regress"
)

// FileStore persists the fitted pipeline (gob) and its metadata (JSON) on
// disk. Writes go through a temp file plus rename so a reader never observes
// a partially written artifact.
type FileStore struct {
	ModelPath string
	MetaPath  string
}

// NewFileStore creates a store over the two artifact paths.
func NewFileStore(modelPath, metaPath string) *FileStore {
	return &FileStore{ModelPath: modelPath, MetaPath: metaPath}
}

// SavePipeline gob-encodes the fitted pipeline to ModelPath atomically.
func (s *FileStore) SavePipeline(p *regress.Pipeline) error {
	return writeAtomic(s.ModelPath, func(f *os.File) error {
		return gob.NewEncoder(f).Encode(p)
	})
}

// SaveMetadata writes the metadata record to MetaPath as indented JSON.
func (s *FileStore) SaveMetadata(m *model.Metadata) error {
	return writeAtomic(s.MetaPath, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
}

// LoadPipeline reads the persisted pipeline back; reloading reproduces the
// exact numeric behavior of the pipeline that was saved.
func (s *FileStore) LoadPipeline() (*regress.Pipeline, error) {
	f, err := os.Open(s.ModelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ArtifactMissing(
				fmt.Sprintf("model artifact not found at %s; train the model first", s.ModelPath), err)
		}
		return nil, errors.Wrap(err, "opening model artifact")
	}
	defer f.Close()

	var p regress.Pipeline
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decoding model artifact")
	}
	return &p, nil
}

// LoadMetadata reads the persisted metadata record back.
func (s *FileStore) LoadMetadata() (*model.Metadata, error) {
	data, err := os.ReadFile(s.MetaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ArtifactMissing(
				fmt.Sprintf("metadata not found at %s; train the model first", s.MetaPath), err)
		}
		return nil, errors.Wrap(err, "reading metadata")
	}

	var m model.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding metadata")
	}
	return &m, nil
}

func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating artifact directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return errors.Wrap(err, "creating temp artifact file")
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing artifact %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing artifact %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing artifact %s", path)
	}
	return nil
}
