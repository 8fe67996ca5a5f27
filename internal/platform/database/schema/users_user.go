package schema

// UserTable represents the 'users' table
type UserTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	CreatedAt string
	UpdatedAt string
}

// User is the schema definition for users
var User = UserTable{
	Table:     "users",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Password:  "password",
	FirstName: "first_name",
	LastName:  "last_name",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Password, t.FirstName, t.LastName, t.CreatedAt, t.UpdatedAt}
}
