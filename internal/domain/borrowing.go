package domain

// Estados de un registro de prestamo.
const (
	BorrowingActive   = "BORROWED"
	BorrowingReturned = "RETURNED"
)

type BorrowingRecord struct {
	RecordID      int64      `json:"recordId"`
	UserID        int64      `json:"userId"`
	InventoryID   int64      `json:"inventoryId"`
	BorrowingTime Timestamp  `json:"borrowingTime"`
	ReturnTime    *Timestamp `json:"returnTime,omitempty"`
	Status        string     `json:"status,omitempty"`
	BookName      string     `json:"bookName,omitempty"`
	ISBN          string     `json:"isbn,omitempty"`
}

// Returned indica si el ejemplar ya fue devuelto.
func (r BorrowingRecord) Returned() bool {
	return r.ReturnTime != nil
}

// BorrowingStats resume los prestamos del lector autenticado.
type BorrowingStats struct {
	TotalBorrowed int `json:"totalBorrowed"`
	ActiveCount   int `json:"activeCount"`
	ReturnedCount int `json:"returnedCount"`
}

// Availability es el payload de GET /borrowing/check-availability/{id}.
type Availability struct {
	InventoryID int64  `json:"inventoryId"`
	IsAvailable bool   `json:"isAvailable"`
	Status      string `json:"status"`
}
