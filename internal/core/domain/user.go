package domain

// User represents a registered user owning zero or more accounts. Deleting a user
// disassociates and force-closes the owned accounts; it never deletes them.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"` // Unique, matched byte-exact
	PasswordHash string `json:"-"`     // bcrypt hash, write-only
	Address      string `json:"address"`
	AuditFields
}
