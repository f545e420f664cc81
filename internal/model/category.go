package model

type Category struct {
	BaseModel
	RemoteID    *int64  `db:"remote_id" json:"remote_id"` // Nil for locally created categories
	ParentID    *string `db:"parent_id" json:"parent_id"` // Nullable
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description *string `db:"description" json:"description"`
	ImageURL    *string `db:"image_url" json:"image_url"`
	SortOrder   int     `db:"sort_order" json:"sort_order"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}

// IsLinked reports whether the category came from the remote store.
func (c *Category) IsLinked() bool {
	return c.RemoteID != nil
}
