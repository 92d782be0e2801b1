package shop

import (
	"fmt"
	"strconv"
	"strings"
)

type Product struct {
	ID          string  `json:"id"`
	Categoria   string  `json:"categoria"`
	Descripcion string  `json:"descripcion"`
	Disponible  bool    `json:"disponible"`
	ImagenURL   string  `json:"imagenURL"`
	Nombre      string  `json:"nombre"`
	Precio      float64 `json:"precio"`
	Stock       int     `json:"stock"`
}

// ProductForm carries the raw multipart form values; everything arrives as a
// string and is coerced here.
type ProductForm struct {
	Categoria   string
	Descripcion string
	Disponible  string
	Nombre      string
	Precio      string
	Stock       string
}

func (f ProductForm) parse() (Product, error) {
	nombre := strings.TrimSpace(f.Nombre)
	if nombre == "" {
		return Product{}, fmt.Errorf("%w: nombre is required", ErrValidation)
	}

	precio, err := strconv.ParseFloat(strings.TrimSpace(f.Precio), 64)
	if err != nil {
		return Product{}, fmt.Errorf("%w: precio is not a number", ErrValidation)
	}

	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		return Product{}, fmt.Errorf("%w: stock is not an integer", ErrValidation)
	}

	return Product{
		Categoria:   f.Categoria,
		Descripcion: f.Descripcion,
		Disponible:  f.Disponible == "true",
		Nombre:      nombre,
		Precio:      precio,
		Stock:       stock,
	}, nil
}
