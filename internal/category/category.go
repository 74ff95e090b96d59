package category

// Category groups to-do events under a user-chosen label and color.
type Category struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	// Color is a hex value like "#FF0000".
	Color *string `json:"color"`
}
