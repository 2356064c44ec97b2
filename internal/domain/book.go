package domain

// Estados de un ejemplar en inventario.
const (
	InventoryAvailable  = "AVAILABLE"
	InventoryBorrowed   = "BORROWED"
	InventoryProcessing = "PROCESSING"
	InventoryLost       = "LOST"
)

type Book struct {
	ISBN         string `json:"isbn"`
	Name         string `json:"name"`
	Author       string `json:"author"`
	Introduction string `json:"introduction,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// Inventory es un ejemplar fisico de un libro.
type Inventory struct {
	InventoryID int64     `json:"inventoryId"`
	ISBN        string    `json:"isbn"`
	StoreTime   Timestamp `json:"storeTime"`
	Status      string    `json:"status"`
	Book        *Book     `json:"book,omitempty"`
}

// Available indica si el ejemplar se puede prestar.
func (i Inventory) Available() bool {
	return i.Status == InventoryAvailable
}

// SearchParams filtra GET /books/search. Los campos vacios no se envian.
type SearchParams struct {
	Keyword string `json:"keyword,omitempty"`
	Author  string `json:"author,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
}
