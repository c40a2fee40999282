package catalog

import (
	"context"
	"log/slog"
	"testing"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoriesStorage struct {
	categories []models.Category
	nextID     int64
}

func (f *fakeCategoriesStorage) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	category := models.Category{ID: f.nextID, Name: name, Slug: slug}
	f.categories = append(f.categories, category)
	return &category, nil
}

func (f *fakeCategoriesStorage) List(_ context.Context, search string) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoriesStorage) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			category := f.categories[i]
			return &category, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCategoriesStorage) DeleteBySlug(_ context.Context, slug string) error {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeGenresStorage struct {
	genres []models.Genre
	nextID int64
}

func (f *fakeGenresStorage) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	for _, g := range f.genres {
		if g.Slug == slug {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	genre := models.Genre{ID: f.nextID, Name: name, Slug: slug}
	f.genres = append(f.genres, genre)
	return &genre, nil
}

func (f *fakeGenresStorage) List(_ context.Context, search string) ([]models.Genre, error) {
	return f.genres, nil
}

func (f *fakeGenresStorage) GetBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	var matched []models.Genre
	for _, slug := range slugs {
		for _, g := range f.genres {
			if g.Slug == slug {
				matched = append(matched, g)
			}
		}
	}
	return matched, nil
}

func (f *fakeGenresStorage) DeleteBySlug(_ context.Context, slug string) error {
	for i := range f.genres {
		if f.genres[i].Slug == slug {
			f.genres = append(f.genres[:i], f.genres[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type insertedTitle struct {
	name       string
	year       int32
	categoryID *int64
	genreIDs   []int64
}

type fakeTitlesStorage struct {
	titles   map[int64]*models.Title
	inserted []insertedTitle
	updates  []insertedTitle
	nextID   int64
}

func newFakeTitlesStorage() *fakeTitlesStorage {
	return &fakeTitlesStorage{titles: make(map[int64]*models.Title)}
}

func (f *fakeTitlesStorage) Insert(_ context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	for _, t := range f.titles {
		if t.Name == name && t.Year == year {
			return nil, storage.ErrConflict
		}
	}
	f.inserted = append(f.inserted, insertedTitle{name, year, categoryID, genreIDs})
	f.nextID++
	title := &models.Title{ID: f.nextID, Name: name, Year: year, Description: description, Genres: []models.Genre{}}
	f.titles[title.ID] = title
	return title, nil
}

func (f *fakeTitlesStorage) Get(_ context.Context, id int64) (*models.Title, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *title
	return &copied, nil
}

func (f *fakeTitlesStorage) List(_ context.Context, _ filters.TitleFilters) ([]models.Title, int, error) {
	var all []models.Title
	for _, t := range f.titles {
		all = append(all, *t)
	}
	return all, len(all), nil
}

func (f *fakeTitlesStorage) Update(_ context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64, setGenres bool) (*models.Title, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	f.updates = append(f.updates, insertedTitle{name, year, categoryID, genreIDs})
	title.Name = name
	title.Year = year
	title.Description = description
	copied := *title
	return &copied, nil
}

func (f *fakeTitlesStorage) Delete(_ context.Context, id int64) error {
	if _, ok := f.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.titles, id)
	return nil
}

func newTestService() (*CatalogService, *fakeCategoriesStorage, *fakeGenresStorage, *fakeTitlesStorage) {
	categories := &fakeCategoriesStorage{}
	genres := &fakeGenresStorage{}
	titles := newFakeTitlesStorage()
	return New(slog.Default(), categories, genres, titles), categories, genres, titles
}

func TestCreateCategory(t *testing.T) {
	service, _, _, _ := newTestService()
	category, err := service.CreateCategory(context.Background(), "Movies", "movies")
	require.NoError(t, err)
	assert.Equal(t, "movies", category.Slug)

	_, err = service.CreateCategory(context.Background(), "Movies again", "movies")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestDeleteCategory(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.CreateCategory(context.Background(), "Movies", "movies")
	require.NoError(t, err)

	require.NoError(t, service.DeleteCategory(context.Background(), "movies"))
	assert.ErrorIs(t, service.DeleteCategory(context.Background(), "movies"), ErrCategoryNotFound)
}

func TestCreateGenre(t *testing.T) {
	service, _, _, _ := newTestService()
	genre, err := service.CreateGenre(context.Background(), "Drama", "drama")
	require.NoError(t, err)
	assert.Equal(t, "drama", genre.Slug)

	_, err = service.CreateGenre(context.Background(), "Drama", "drama")
	assert.ErrorIs(t, err, ErrGenreExists)

	assert.ErrorIs(t, service.DeleteGenre(context.Background(), "comedy"), ErrGenreNotFound)
}

func seedRefs(t *testing.T, service *CatalogService) {
	t.Helper()
	_, err := service.CreateCategory(context.Background(), "Movies", "movies")
	require.NoError(t, err)
	_, err = service.CreateGenre(context.Background(), "Drama", "drama")
	require.NoError(t, err)
	_, err = service.CreateGenre(context.Background(), "Sci-Fi", "sci-fi")
	require.NoError(t, err)
}

func TestCreateTitleResolvesSlugs(t *testing.T) {
	service, _, _, titlesStore := newTestService()
	seedRefs(t, service)

	title, err := service.CreateTitle(context.Background(), TitleInput{
		Name:         "Solaris",
		Year:         1972,
		CategorySlug: "movies",
		GenreSlugs:   []string{"drama", "sci-fi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", title.Name)

	require.Len(t, titlesStore.inserted, 1)
	require.NotNil(t, titlesStore.inserted[0].categoryID)
	assert.Len(t, titlesStore.inserted[0].genreIDs, 2)
}

func TestCreateTitleWithoutRefs(t *testing.T) {
	service, _, _, titlesStore := newTestService()
	_, err := service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)
	require.Len(t, titlesStore.inserted, 1)
	assert.Nil(t, titlesStore.inserted[0].categoryID)
	assert.Empty(t, titlesStore.inserted[0].genreIDs)
}

func TestCreateTitleUnknownRefs(t *testing.T) {
	service, _, _, _ := newTestService()
	seedRefs(t, service)

	_, err := service.CreateTitle(context.Background(), TitleInput{
		Name: "Solaris", Year: 1972, CategorySlug: "books",
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = service.CreateTitle(context.Background(), TitleInput{
		Name: "Solaris", Year: 1972, GenreSlugs: []string{"drama", "western"},
	})
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestCreateTitleDuplicateNameYear(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	_, err = service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	assert.ErrorIs(t, err, ErrTitleExists)

	_, err = service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 2002})
	assert.NoError(t, err, "same name in another year is a different title")
}

func TestUpdateTitlePartial(t *testing.T) {
	service, _, _, titlesStore := newTestService()
	seedRefs(t, service)
	title, err := service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	newName := "Solaris (restored)"
	updated, err := service.UpdateTitle(context.Background(), title.ID, TitleUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.EqualValues(t, 1972, updated.Year, "year untouched")
	require.Len(t, titlesStore.updates, 1)
}

func TestUpdateTitleRefs(t *testing.T) {
	service, _, _, _ := newTestService()
	seedRefs(t, service)
	title, err := service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	badSlug := "books"
	_, err = service.UpdateTitle(context.Background(), title.ID, TitleUpdate{CategorySlug: &badSlug})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = service.UpdateTitle(context.Background(), title.ID, TitleUpdate{GenreSlugs: []string{"western"}})
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestUpdateTitleNotFound(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.UpdateTitle(context.Background(), 42, TitleUpdate{})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestDeleteTitle(t *testing.T) {
	service, _, _, _ := newTestService()
	title, err := service.CreateTitle(context.Background(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	require.NoError(t, service.DeleteTitle(context.Background(), title.ID))
	assert.ErrorIs(t, service.DeleteTitle(context.Background(), title.ID), ErrTitleNotFound)
	_, err = service.GetTitle(context.Background(), title.ID)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}
