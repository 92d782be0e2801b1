package shop

// CartItem is a cart line. Nombre and Precio are denormalized snapshots taken
// at add time; ID informally references a Product and is never checked for
// existence.
type CartItem struct {
	ID       string  `json:"id" validate:"required"`
	Nombre   string  `json:"nombre" validate:"required"`
	Precio   float64 `json:"precio" validate:"gte=0"`
	Cantidad int     `json:"cantidad" validate:"required,gt=0"`
}
