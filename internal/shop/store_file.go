package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	productsFile = "products.json"
	cartsFile    = "carts.json"
)

// FileStore keeps the snapshots as two indented JSON documents under a data
// directory. Each Save rewrites a document through a temp file and rename, so
// readers of the files never observe a partial write. The two documents are
// still not atomic with each other; a crash between the renames leaves them
// inconsistent until the next successful Save.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Load(ctx context.Context) ([]Product, map[string][]CartItem, error) {
	products := []Product{}
	if err := s.readDoc(productsFile, &products); err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}

	carts := map[string][]CartItem{}
	if err := s.readDoc(cartsFile, &carts); err != nil {
		return nil, nil, fmt.Errorf("load carts: %w", err)
	}

	return products, carts, nil
}

func (s *FileStore) Save(ctx context.Context, products []Product, carts map[string][]CartItem) error {
	if products == nil {
		products = []Product{}
	}
	if carts == nil {
		carts = map[string][]CartItem{}
	}

	if err := s.writeDoc(productsFile, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	if err := s.writeDoc(cartsFile, carts); err != nil {
		return fmt.Errorf("save carts: %w", err)
	}
	return nil
}

func (s *FileStore) readDoc(name string, dst any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (s *FileStore) writeDoc(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, name)
	tmp := path + "." + uuid.NewString() + ".tmp"

	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
