package schema

// TagTable represents the 'tags' table
type TagTable struct {
	Table            string
	ID               string
	Name             string
	NameTranslations string
}

// Tag is the schema definition for tags
var Tag = TagTable{
	Table:            "tags",
	ID:               "id",
	Name:             "name",
	NameTranslations: "name_translations",
}

func (t TagTable) Columns() []string {
	return []string{t.ID, t.Name, t.NameTranslations}
}
