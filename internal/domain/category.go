package domain

import (
	"strings"
	"unicode/utf8"
)

const maxNameLength = 255

// Category is a node in the category tree. ParentID is a weak back-reference;
// a category never owns its subcategories.
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	ParentID    *int64  `json:"parent" db:"parent_id"`
}

// Validate checks the fields of a category that do not need the store.
// Name uniqueness and parent existence are checked by the service.
func (c *Category) Validate() error {
	v := &ValidationError{}
	validateName(v, c.Name)
	if c.ParentID != nil && c.ID != 0 && *c.ParentID == c.ID {
		v.Add("parent", "A category cannot be its own parent.")
	}
	return v.OrNil()
}

// ValidateParent rejects parentID when it would make id its own ancestor.
// ancestorsOfParent is the chain parentID, parent(parentID), ... up to a root.
func ValidateParent(id int64, parentID int64, ancestorsOfParent []int64) error {
	if id == 0 {
		return nil
	}
	if parentID == id {
		return NewValidationError("parent", "A category cannot be its own parent.")
	}
	for _, ancestor := range ancestorsOfParent {
		if ancestor == id {
			return NewValidationError("parent", "A category cannot be moved under one of its own subcategories.")
		}
	}
	return nil
}

func validateName(v *ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		v.Add("name", "This field may not be blank.")
		return
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		v.Add("name", "Ensure this field has no more than 255 characters.")
	}
}
