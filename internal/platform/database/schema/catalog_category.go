package schema

// CategoryTable represents the 'categories' table
type CategoryTable struct {
	Table                   string
	ID                      string
	Name                    string
	Description             string
	NameTranslations        string
	DescriptionTranslations string
	CreatedAt               string
}

// Category is the schema definition for categories
var Category = CategoryTable{
	Table:                   "categories",
	ID:                      "id",
	Name:                    "name",
	Description:             "description",
	NameTranslations:        "name_translations",
	DescriptionTranslations: "description_translations",
	CreatedAt:               "created_at",
}

func (t CategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.NameTranslations, t.DescriptionTranslations, t.CreatedAt}
}
