package shop

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFileStore_LoadMissingFilesIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())

	products, carts, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("products=%d want=0", len(products))
	}
	if len(carts) != 0 {
		t.Fatalf("carts=%d want=0", len(carts))
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	products := []Product{
		{ID: "1", Categoria: "perifericos", Descripcion: "Mouse inalámbrico", Disponible: true, ImagenURL: "http://localhost:3000/uploads/1712.png", Nombre: "Mouse", Precio: 10.5, Stock: 5},
		{ID: "2", Nombre: "Teclado", Precio: 25, Stock: -1},
	}
	carts := map[string][]CartItem{
		"u1": {{ID: "1", Nombre: "Mouse", Precio: 10.5, Cantidad: 4}},
		"u2": {},
	}

	if err := NewFileStore(dir).Save(ctx, products, carts); err != nil {
		t.Fatalf("save: %v", err)
	}

	gotProducts, gotCarts, err := NewFileStore(dir).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(gotProducts, products) {
		t.Fatalf("products=%+v want=%+v", gotProducts, products)
	}
	if !reflect.DeepEqual(gotCarts, carts) {
		t.Fatalf("carts=%+v want=%+v", gotCarts, carts)
	}
}

func TestFileStore_SaveIsWholeDocumentOverwrite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := NewFileStore(dir)

	if err := store.Save(ctx, []Product{{ID: "1", Nombre: "Mouse"}}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, []Product{{ID: "2", Nombre: "Teclado"}}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	products, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 1 || products[0].ID != "2" {
		t.Fatalf("products=%+v want only id 2", products)
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	if err := NewFileStore(dir).Save(context.Background(), []Product{{ID: "1"}}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", filepath.Join(dir, e.Name()))
		}
	}
}
