package guides

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Persister stores the guide list between sessions.
type Persister interface {
	Load() ([]Guide, error)
	Save([]Guide) error
}

type document struct {
	Guides []Guide `yaml:"guides"`
}

// FilePersister keeps guides in a YAML file. A missing file holds no guides.
type FilePersister struct {
	Path string
}

func (p FilePersister) Load() ([]Guide, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read guides: %w", err)
	}
	return decode(data)
}

func (p FilePersister) Save(list []Guide) error {
	data, err := yaml.Marshal(document{Guides: list})
	if err != nil {
		return fmt.Errorf("marshal guides: %w", err)
	}
	if dir := filepath.Dir(p.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create guides dir: %w", err)
		}
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return fmt.Errorf("write guides: %w", err)
	}
	return nil
}

const (
	storageObject   = "transform2d"
	storageProperty = "guides"
)

// StoragePersister keeps guides in the per-user gdata store.
type StoragePersister struct {
	Manager *gdata.Manager
}

func (p StoragePersister) Load() ([]Guide, error) {
	if p.Manager == nil || !p.Manager.ObjectPropExists(storageObject, storageProperty) {
		return nil, nil
	}
	data, err := p.Manager.LoadObjectProp(storageObject, storageProperty)
	if err != nil {
		return nil, fmt.Errorf("load guides: %w", err)
	}
	return decode(data)
}

func (p StoragePersister) Save(list []Guide) error {
	if p.Manager == nil {
		return nil
	}
	data, err := yaml.Marshal(document{Guides: list})
	if err != nil {
		return fmt.Errorf("marshal guides: %w", err)
	}
	if err := p.Manager.SaveObjectProp(storageObject, storageProperty, data); err != nil {
		return fmt.Errorf("save guides: %w", err)
	}
	return nil
}

func decode(data []byte) ([]Guide, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal guides: %w", err)
	}
	return doc.Guides, nil
}
