package onepassword

import "time"

// ItemCategory classifies what an item holds. The set is closed; the
// server rejects categories it does not know.
type ItemCategory string

const (
	Login           ItemCategory = "LOGIN"
	Password        ItemCategory = "PASSWORD"
	APICredential   ItemCategory = "API_CREDENTIAL"
	Server          ItemCategory = "SERVER"
	Database        ItemCategory = "DATABASE"
	CreditCard      ItemCategory = "CREDIT_CARD"
	Membership      ItemCategory = "MEMBERSHIP"
	Passport        ItemCategory = "PASSPORT"
	SoftwareLicense ItemCategory = "SOFTWARE_LICENSE"
	SecureNote      ItemCategory = "SECURE_NOTE"
	WirelessRouter  ItemCategory = "WIRELESS_ROUTER"
	BankAccount     ItemCategory = "BANK_ACCOUNT"
	DriverLicense   ItemCategory = "DRIVER_LICENSE"
	Identity        ItemCategory = "IDENTITY"
	Document        ItemCategory = "DOCUMENT"
	EmailAccount    ItemCategory = "EMAIL_ACCOUNT"
	Custom          ItemCategory = "CUSTOM"
)

// Item is a secret record inside a vault. An item assembled locally
// carries no ID and no timestamps; the server assigns both on create
// and they travel with the item from then on. A deleted item's local
// value is a dangling reference the caller must discard.
type Item struct {
	ID        string        `json:"id,omitempty"`
	Title     string        `json:"title"`
	Vault     ItemVault     `json:"vault"`
	Category  ItemCategory  `json:"category"`
	Sections  []ItemSection `json:"sections,omitempty"`
	Fields    []ItemField   `json:"fields,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Favorite  bool          `json:"favorite,omitempty"`
	Version   int           `json:"version,omitempty"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
	UpdatedAt time.Time     `json:"updatedAt,omitzero"`
}

// ItemVault carries the owning vault's ID inside an item payload.
type ItemVault struct {
	ID string `json:"id"`
}

// ItemSection groups fields under a label. Section IDs are unique
// within their item.
type ItemSection struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}
