package person

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mangoose/internal/queryir"
	"github.com/roach88/mangoose/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ids := make([]string, 32)
	for i := range ids {
		ids[i] = fmt.Sprintf("p-%02d", i+1)
	}
	repo, err := NewRepository(st.Database("mangoose"), store.WithIDGenerator(store.NewFixedGenerator(ids...)))
	require.NoError(t, err)
	return repo
}

func TestCreate_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.Create(t.Context(), New("John Doe", 25, "pizza", "pasta"))
	require.NoError(t, err)
	assert.Equal(t, "p-01", saved.ID)

	got, err := repo.FindByID(t.Context(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, 25.0, *got.Age)
	assert.Equal(t, []string{"pizza", "pasta"}, got.FavoriteFoods)
}

func TestCreate_NilFoodsStoredAsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.Create(t.Context(), Person{Name: "Solo"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, saved.FavoriteFoods)
	assert.Nil(t, saved.Age)
}

func TestCreate_RequiresName(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Create(t.Context(), Person{FavoriteFoods: []string{"pizza"}})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, Collection, verr.Collection)

	n, err := repo.Count(t.Context(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateMany_InvalidRejectsBatch(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateMany(t.Context(), []Person{New("a", 1), {Name: ""}})
	require.Error(t, err)

	n, err := repo.Count(t.Context(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNameIsAndLikes(t *testing.T) {
	repo := newTestRepository(t)
	batch, err := SeedBatch()
	require.NoError(t, err)
	_, err = repo.CreateMany(t.Context(), batch)
	require.NoError(t, err)

	marys, err := repo.Find(t.Context(), queryir.Where(NameIs("Mary")))
	require.NoError(t, err)
	require.Len(t, marys, 2)
	assert.Equal(t, 22.0, *marys[0].Age)
	assert.Equal(t, 28.0, *marys[1].Age)

	fan, err := repo.FindOne(t.Context(), Likes("burritos"))
	require.NoError(t, err)
	assert.Equal(t, "Mary", fan.Name)

	n, err := repo.Count(t.Context(), Likes("burritos"))
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestSave_AppendIsSuffixPreserving(t *testing.T) {
	repo := newTestRepository(t)
	saved, err := repo.Create(t.Context(), New("John Doe", 25, "pizza", "pasta"))
	require.NoError(t, err)

	loaded, err := repo.FindByID(t.Context(), saved.ID)
	require.NoError(t, err)
	loaded.AddFood("hamburger")

	updated, err := repo.Save(t.Context(), loaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"pizza", "pasta", "hamburger"}, updated.FavoriteFoods)

	reloaded, err := repo.FindByID(t.Context(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, reloaded)
}

func TestSave_DeletedPerson(t *testing.T) {
	repo := newTestRepository(t)
	saved, err := repo.Create(t.Context(), New("John Doe", 25))
	require.NoError(t, err)
	_, err = repo.FindByIDAndDelete(t.Context(), saved.ID)
	require.NoError(t, err)

	_, err = repo.Save(t.Context(), saved)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), saved.ID)
}

func TestSave_MissingID(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Save(t.Context(), New("x", 1))
	assert.Error(t, err)
}

func TestFindOneAndUpdate_PostImage(t *testing.T) {
	repo := newTestRepository(t)
	batch, err := SeedBatch()
	require.NoError(t, err)
	_, err = repo.CreateMany(t.Context(), batch)
	require.NoError(t, err)

	ali, err := repo.FindOneAndUpdate(t.Context(), NameIs("Ali"), queryir.Set(FieldAge, 20), queryir.ReturnAfter)
	require.NoError(t, err)
	assert.Equal(t, "Ali", ali.Name)
	assert.Equal(t, 20.0, *ali.Age)
	assert.Equal(t, []string{"couscous", "burritos"}, ali.FavoriteFoods)
}

func TestFindOneAndUpdate_FractionalAge(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Create(t.Context(), New("Ali", 30, "burritos"))
	require.NoError(t, err)

	ali, err := repo.FindOneAndUpdate(t.Context(), NameIs("Ali"), queryir.Set(FieldAge, 20.5), queryir.ReturnAfter)
	require.NoError(t, err)
	require.NotNil(t, ali.Age)
	assert.Equal(t, 20.5, *ali.Age)

	// The collection stays readable after a non-integer age is stored.
	people, err := repo.Find(t.Context(), queryir.Find{})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, 20.5, *people[0].Age)
}

func TestCreate_FractionalAgeRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.Create(t.Context(), New("Sarah", 19.75, "pizza"))
	require.NoError(t, err)

	got, err := repo.FindByID(t.Context(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 19.75, *got.Age)
}

func TestFind_ExcludedAgeIsNil(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Create(t.Context(), New("Ali", 30, "burritos"))
	require.NoError(t, err)

	people, err := repo.Find(t.Context(), queryir.Find{Exclude: []string{FieldAge}})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Nil(t, people[0].Age)
}

func TestDeleteManyAndDrop(t *testing.T) {
	repo := newTestRepository(t)
	batch, err := SeedBatch()
	require.NoError(t, err)
	_, err = repo.CreateMany(t.Context(), batch)
	require.NoError(t, err)

	n, err := repo.DeleteMany(t.Context(), NameIs("Mary"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Drop(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, len(batch)-2, n)
}
