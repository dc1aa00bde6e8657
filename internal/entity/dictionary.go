package entity

// Store is a dictionary row for the store filter widget.
type Store struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// Channel is a sales avenue (online, retail, ...) a sale is attributed to.
type Channel struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// PaymentType is a dictionary row describing how a payment was made.
type PaymentType struct {
	ID          int    `db:"id"`
	Description string `db:"description"`
}

// Product is a dictionary row for the product selection widget.
type Product struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}
