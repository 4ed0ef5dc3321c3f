package optionset

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/form"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/paging"
)

// Domain conflicts raised by the duplicate checks inside write transactions.
var (
	ErrDuplicateName  = errors.New("option set name already exists")
	ErrDuplicateValue = errors.New("this value already exists for the selected option set")
)

// errRowMissing aborts a write transaction when the target row is gone.
var errRowMissing = errors.New("option set row does not exist")

// Repository defines the persistence contract for option sets and their values.
type Repository interface {
	List(ctx context.Context) ([]OptionSet, error)
	Paged(ctx context.Context, req paging.Request) (paging.Result[OptionSet], error)
	Find(ctx context.Context, id int) (*OptionSet, error)
	Values(ctx context.Context, setID int) ([]OptionValue, error)
	Create(ctx context.Context, name string) (*OptionSet, error)
	Update(ctx context.Context, id int, name string) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	AddValue(ctx context.Context, setID int, value string) (bool, error)
	UpdateValue(ctx context.Context, id int, value string, setID int) (bool, error)
	DeleteValue(ctx context.Context, id int) (bool, error)
}

// GormRepository provides a relational-backed implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository constructs a repository from a database connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// List returns every option set ordered by id, without paging.
func (r *GormRepository) List(ctx context.Context) ([]OptionSet, error) {
	var sets []OptionSet
	err := r.db.WithContext(ctx).Order("option_id ASC").Find(&sets).Error
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// Paged serves one page of option sets. TotalCount ignores the search
// term; FilteredCount is the size of the searched set.
func (r *GormRepository) Paged(ctx context.Context, req paging.Request) (paging.Result[OptionSet], error) {
	var result paging.Result[OptionSet]
	if err := req.Validate(); err != nil {
		return result, err
	}

	if err := r.db.WithContext(ctx).Model(&OptionSet{}).Count(&result.TotalCount).Error; err != nil {
		return result, err
	}

	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&OptionSet{})
		if req.HasSearch() {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+req.SearchTerm()+"%")
		}
		return query
	}

	if err := filtered().Count(&result.FilteredCount).Error; err != nil {
		return result, err
	}

	err := filtered().
		Order(req.OrderClause("option_id", "option_id", "name")).
		Offset(req.Skip).
		Limit(req.PageSize).
		Find(&result.Rows).Error
	if err != nil {
		return paging.Result[OptionSet]{}, err
	}

	return result, nil
}

// Find returns an option set by id; gorm.ErrRecordNotFound when absent.
func (r *GormRepository) Find(ctx context.Context, id int) (*OptionSet, error) {
	var entity OptionSet
	if err := r.db.WithContext(ctx).First(&entity, "option_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Values returns the values owned by a set, ordered by id.
func (r *GormRepository) Values(ctx context.Context, setID int) ([]OptionValue, error) {
	var values []OptionValue
	err := r.db.WithContext(ctx).Where("option_id = ?", setID).Order("option_value_id ASC").Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Create inserts a new option set after checking name uniqueness. The
// check and the insert share one transaction; a duplicate name rolls
// back with ErrDuplicateName and no row is written.
func (r *GormRepository) Create(ctx context.Context, name string) (*OptionSet, error) {
	entity := OptionSet{Name: name}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&OptionSet{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		return tx.Create(&entity).Error
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// Update renames a set, excluding its own row from the duplicate check.
func (r *GormRepository) Update(ctx context.Context, id int, name string) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&OptionSet{}).Where("name = ? AND option_id <> ?", name, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		result := tx.Model(&OptionSet{}).Where("option_id = ?", id).Update("name", name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errRowMissing
		}
		return nil
	})
	if errors.Is(err, errRowMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Delete removes, in order, the field rows referencing this set, the
// values it owns, and the set row itself, all in one transaction. The
// result reports whether the set row was removed.
func (r *GormRepository) Delete(ctx context.Context, id int) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id = ?", id).Delete(&form.Field{}).Error; err != nil {
			return err
		}

		if err := tx.Where("option_id = ?", id).Delete(&OptionValue{}).Error; err != nil {
			return err
		}

		result := tx.Where("option_id = ?", id).Delete(&OptionSet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errRowMissing
		}
		return nil
	})
	if errors.Is(err, errRowMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// AddValue inserts a value after checking uniqueness within the owning
// set; check and insert share one transaction.
func (r *GormRepository) AddValue(ctx context.Context, setID int, value string) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&OptionValue{}).Where("option_id = ? AND value = ?", setID, value).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateValue
		}

		return tx.Create(&OptionValue{OptionID: setID, Value: value}).Error
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// UpdateValue rewrites a value, excluding its own row from the
// duplicate check against the owning set.
func (r *GormRepository) UpdateValue(ctx context.Context, id int, value string, setID int) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&OptionValue{}).
			Where("option_id = ? AND value = ? AND option_value_id <> ?", setID, value, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateValue
		}

		result := tx.Model(&OptionValue{}).Where("option_value_id = ?", id).Update("value", value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errRowMissing
		}
		return nil
	})
	if errors.Is(err, errRowMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteValue removes a single value row.
func (r *GormRepository) DeleteValue(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Where("option_value_id = ?", id).Delete(&OptionValue{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsConflict reports whether an error is a duplicate name or value conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrDuplicateValue)
}

// IsNotFound reports whether an error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
