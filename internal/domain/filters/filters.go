package filters

import (
	"net/url"

	"github.com/gorilla/schema"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type Filters struct {
	Page     int `schema:"page" validate:"omitempty,gt=0"`
	PageSize int `schema:"page_size" validate:"omitempty,gt=0,lte=100"`
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Normalize fills zero values with defaults. pageSize is the
// per-resource default page size.
func (f *Filters) Normalize(pageSize int) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = pageSize
	}
}

// TitleFilters holds the supported query filters for title listings.
type TitleFilters struct {
	Filters
	Category string `schema:"category"` // category slug
	Genre    string `schema:"genre"`    // genre slug
	Name     string `schema:"name"`     // name substring
	Year     int32  `schema:"year"`
}

type SearchFilters struct {
	Filters
	Search string `schema:"search"`
}

// Decode populates dst from raw query values.
func Decode(dst any, query url.Values) error {
	return queryDecoder.Decode(dst, query)
}
