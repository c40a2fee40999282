package catalog

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category with that slug already exists")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrGenreExists      = errors.New("genre with that slug already exists")
	ErrTitleNotFound    = errors.New("title not found")
	ErrTitleExists      = errors.New("title with that name and year already exists")
)
