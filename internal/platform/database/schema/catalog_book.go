package schema

// BookTable represents the 'books' table
type BookTable struct {
	Table                   string
	ID                      string
	Title                   string
	Description             string
	TitleTranslations       string
	DescriptionTranslations string
	Price                   string
	Thumbnail               string
	AuthorID                string
	CategoryID              string
	CreatedAt               string
	UpdatedAt               string
}

// Book is the schema definition for books
var Book = BookTable{
	Table:                   "books",
	ID:                      "id",
	Title:                   "title",
	Description:             "description",
	TitleTranslations:       "title_translations",
	DescriptionTranslations: "description_translations",
	Price:                   "price",
	Thumbnail:               "thumbnail",
	AuthorID:                "author_id",
	CategoryID:              "category_id",
	CreatedAt:               "created_at",
	UpdatedAt:               "updated_at",
}

// Columns returns all standard column names
func (t BookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.TitleTranslations, t.DescriptionTranslations,
		t.Price, t.Thumbnail, t.AuthorID, t.CategoryID, t.CreatedAt, t.UpdatedAt,
	}
}
