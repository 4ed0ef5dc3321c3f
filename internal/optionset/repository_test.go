package optionset_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/form"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/optionset"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/paging"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "optionsets.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&form.Form{},
		&form.Field{},
		&optionset.OptionSet{},
		&optionset.OptionValue{},
	))
	return db
}

func TestCreateAndListOrderedByID(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Color", "Size", "Material"} {
		_, err := repo.Create(ctx, name)
		require.NoError(t, err)
	}

	sets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "Color", sets[0].Name)
	assert.Equal(t, "Size", sets[1].Name)
	assert.Equal(t, "Material", sets[2].Name)
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "Color")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Color")
	require.Error(t, err)
	assert.ErrorIs(t, err, optionset.ErrDuplicateName)
	assert.True(t, optionset.IsConflict(err))

	sets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestFindMissingSetIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)

	_, err := repo.Find(context.Background(), 777)
	require.Error(t, err)
	assert.True(t, optionset.IsNotFound(err))
}

func TestUpdateExcludesOwnRowFromDuplicateCheck(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Size")
	require.NoError(t, err)

	// Re-submitting its own name is not a conflict.
	ok, err := repo.Update(ctx, color.OptionID, "Color")
	require.NoError(t, err)
	assert.True(t, ok)

	// Taking another set's name is.
	_, err = repo.Update(ctx, color.OptionID, "Size")
	assert.ErrorIs(t, err, optionset.ErrDuplicateName)

	got, err := repo.Find(ctx, color.OptionID)
	require.NoError(t, err)
	assert.Equal(t, "Color", got.Name)

	ok, err = repo.Update(ctx, 999, "Fresh")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddValueScenarioColorRedBlue(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)

	ok, err := repo.AddValue(ctx, color.OptionID, "Red")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AddValue(ctx, color.OptionID, "Blue")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.AddValue(ctx, color.OptionID, "Red")
	assert.ErrorIs(t, err, optionset.ErrDuplicateValue)

	values, err := repo.Values(ctx, color.OptionID)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestValueMayRepeatAcrossSets(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)
	mood, err := repo.Create(ctx, "Mood")
	require.NoError(t, err)

	ok, err := repo.AddValue(ctx, color.OptionID, "Blue")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AddValue(ctx, mood.OptionID, "Blue")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateValueExcludesOwnRow(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)
	_, err = repo.AddValue(ctx, color.OptionID, "Red")
	require.NoError(t, err)
	_, err = repo.AddValue(ctx, color.OptionID, "Blue")
	require.NoError(t, err)

	values, err := repo.Values(ctx, color.OptionID)
	require.NoError(t, err)
	require.Len(t, values, 2)
	red, blue := values[0], values[1]

	// Rewriting a value to itself passes the check.
	ok, err := repo.UpdateValue(ctx, red.OptionValueID, "Red", color.OptionID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Renaming onto a sibling value conflicts.
	_, err = repo.UpdateValue(ctx, blue.OptionValueID, "Red", color.OptionID)
	assert.ErrorIs(t, err, optionset.ErrDuplicateValue)

	ok, err = repo.UpdateValue(ctx, 999, "Green", color.OptionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteValue(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)
	_, err = repo.AddValue(ctx, color.OptionID, "Red")
	require.NoError(t, err)

	values, err := repo.Values(ctx, color.OptionID)
	require.NoError(t, err)
	require.Len(t, values, 1)

	ok, err := repo.DeleteValue(ctx, values[0].OptionValueID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteValue(ctx, values[0].OptionValueID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSetCascades(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	forms := form.NewGormRepository(db)
	ctx := context.Background()

	color, err := repo.Create(ctx, "Color")
	require.NoError(t, err)
	_, err = repo.AddValue(ctx, color.OptionID, "Red")
	require.NoError(t, err)
	_, err = repo.AddValue(ctx, color.OptionID, "Blue")
	require.NoError(t, err)

	formID, err := forms.Save(ctx, "Survey1", []form.Field{
		{Label: "Pick a color", OptionID: color.OptionID},
	})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, color.OptionID)
	require.NoError(t, err)
	require.True(t, ok)

	var valueRows int64
	require.NoError(t, db.Model(&optionset.OptionValue{}).Where("option_id = ?", color.OptionID).Count(&valueRows).Error)
	assert.EqualValues(t, 0, valueRows)

	var fieldRows int64
	require.NoError(t, db.Model(&form.Field{}).Where("option_id = ?", color.OptionID).Count(&fieldRows).Error)
	assert.EqualValues(t, 0, fieldRows)

	// The form itself survives; only the referencing field is gone.
	got, err := forms.FindWithFields(ctx, formID)
	require.NoError(t, err)
	assert.Len(t, got.Fields, 0)

	ok, err = repo.Delete(ctx, color.OptionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPagedSetsReportsTrueTotal(t *testing.T) {
	db := newTestDB(t)
	repo := optionset.NewGormRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Color", "Size", "Material", "Shape", "Country"} {
		_, err := repo.Create(ctx, name)
		require.NoError(t, err)
	}

	page, err := repo.Paged(ctx, paging.Request{Skip: 0, PageSize: 2, Search: "c"})
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.EqualValues(t, 5, page.TotalCount)
	assert.EqualValues(t, 2, page.FilteredCount)

	sorted, err := repo.Paged(ctx, paging.Request{Skip: 0, PageSize: 10, SortColumn: "name", SortDirection: "ASC"})
	require.NoError(t, err)
	require.Len(t, sorted.Rows, 5)
	assert.Equal(t, "Color", sorted.Rows[0].Name)

	skipped, err := repo.Paged(ctx, paging.Request{Skip: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, skipped.Rows, 1)
}
