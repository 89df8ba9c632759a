package model

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldEmail    = "email"
	FieldFullName = "full_name"
	FieldActive   = "active"
)

// User is the read-only view of an account owned by the identity service.
type User struct {
	ID       string  `db:"id"`
	Email    string  `db:"email"`
	FullName *string `db:"full_name"`
	Active   bool    `db:"active"`
}

func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}
