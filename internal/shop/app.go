package shop

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"TiendaLite/internal/upload"
	"TiendaLite/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Svc     *Service
	Uploads *upload.Saver
	Log     *zap.Logger

	// MaxUploadBytes caps the multipart form kept in memory on product
	// creation. Zero means a 10 MiB default.
	MaxUploadBytes int64
}

type checkoutResponse struct {
	Mensaje   string    `json:"mensaje"`
	Productos []Product `json:"productos"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Get("/productos", s.handleListProductos)
	r.Post("/productos", s.handleCreateProducto)

	r.Get("/carrito/{userId}", s.handleGetCarrito)
	r.Post("/carrito/{userId}", s.handleAddCarrito)
	r.Delete("/carrito/{userId}", s.handleClearCarrito)

	r.Post("/pago/{userId}", s.handlePago)

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Svc.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleListProductos(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Svc.ListProducts(r.Context()))
}

func (s *Server) handleCreateProducto(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad multipart form", nil)
		return
	}

	// The image must land on disk before the catalog mutation runs; the
	// stored reference is a mandatory product field.
	f, fh, err := r.FormFile("imagen")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "imagen is required", nil)
		return
	}
	_ = f.Close()

	stored, err := s.Uploads.Save(fh)
	if err != nil {
		s.writeUploadError(w, r, err)
		return
	}

	form := ProductForm{
		Categoria:   r.FormValue("categoria"),
		Descripcion: r.FormValue("descripcion"),
		Disponible:  r.FormValue("disponible"),
		Nombre:      r.FormValue("nombre"),
		Precio:      r.FormValue("precio"),
		Stock:       r.FormValue("stock"),
	}

	p, err := s.Svc.CreateProduct(r.Context(), form, stored.URL)
	if err != nil {
		s.Uploads.Remove(stored.Name)
		if errors.Is(err, ErrValidation) {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("create product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetCarrito(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	kit.WriteJSON(w, http.StatusOK, s.Svc.GetCart(r.Context(), userID))
}

func (s *Server) handleAddCarrito(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var item CartItem
	if err := kit.DecodeJSON(w, r, maxBodyBytes, &item); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if err := validateStruct(item); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, err := s.Svc.AddCartItem(r.Context(), userID, item)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("add cart item failed", zap.Error(err), zap.String("user_id", userID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleClearCarrito(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	items, err := s.Svc.ClearCart(r.Context(), userID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("clear cart failed", zap.Error(err), zap.String("user_id", userID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handlePago(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	products, err := s.Svc.Checkout(r.Context(), userID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("checkout failed", zap.Error(err), zap.String("user_id", userID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, checkoutResponse{
		Mensaje:   "Pago realizado",
		Productos: products,
	})
}

func (s *Server) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, upload.ErrNoImage):
		kit.WriteError(w, r, http.StatusBadRequest, "imagen is required", nil)
	case errors.Is(err, upload.ErrUnsupportedType):
		kit.WriteError(w, r, http.StatusBadRequest, "unsupported image type", nil)
	default:
		if s.Log != nil {
			s.Log.Error("store image failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
