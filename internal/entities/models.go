// Package entities defines the dashboard's server-owned collections and
// binds each one to its endpoint, envelope shape and cache policy.
package entities

import "time"

type Waiter struct {
	ID                   string    `json:"id"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	IdentificationNumber string    `json:"identificationNumber"`
	PhoneNumber          string    `json:"phoneNumber"`
	UserName             string    `json:"userName"`
	Password             string    `json:"password,omitempty"` // write-only on create, masked on read
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt,omitzero"`
	UpdatedAt            time.Time `json:"updatedAt,omitzero"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"` // remote URL or an inline data URI pending upload
	CategoryID  string  `json:"categoryId"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"isActive"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Table status is two-state only; there is no reserved or cleaning state in
// the data model.
const (
	TableStatusFree   = "libre"
	TableStatusServed = "atendida"
)

type Table struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Status   string `json:"status"`
	Capacity int    `json:"capacity,omitempty"`
	Location string `json:"location,omitempty"`
}

// Drafts are create payloads: everything but the server-assigned id.

type WaiterDraft struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	IdentificationNumber string `json:"identificationNumber"`
	PhoneNumber          string `json:"phoneNumber"`
	UserName             string `json:"userName"`
	Password             string `json:"password"`
	IsActive             bool   `json:"isActive"`
}

type ProductDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  string  `json:"categoryId"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"isActive"`
}

type CategoryDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type TableDraft struct {
	Number   int    `json:"number"`
	Status   string `json:"status"`
	Capacity int    `json:"capacity,omitempty"`
	Location string `json:"location,omitempty"`
}

// Patches carry only the fields being changed; nil means leave unchanged.

type WaiterPatch struct {
	FirstName            *string `json:"firstName,omitempty"`
	LastName             *string `json:"lastName,omitempty"`
	IdentificationNumber *string `json:"identificationNumber,omitempty"`
	PhoneNumber          *string `json:"phoneNumber,omitempty"`
	UserName             *string `json:"userName,omitempty"`
	Password             *string `json:"password,omitempty"`
	IsActive             *bool   `json:"isActive,omitempty"`
}

type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type TablePatch struct {
	Number   *int    `json:"number,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Location *string `json:"location,omitempty"`
}
