package form

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/paging"
)

// errFormMissing aborts a write transaction when the target row is gone.
var errFormMissing = errors.New("form row does not exist")

// Repository defines the persistence contract for form aggregates.
type Repository interface {
	TitleExists(ctx context.Context, title string) (bool, error)
	Save(ctx context.Context, title string, fields []Field) (int, error)
	FindWithFields(ctx context.Context, formID int) (*Form, error)
	Update(ctx context.Context, payload *Form) (bool, error)
	Delete(ctx context.Context, formID int) (bool, error)
	Paged(ctx context.Context, req paging.Request) (paging.Result[Form], error)
}

// GormRepository provides a relational-backed implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository constructs a repository from a database connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// TitleExists reports whether a form with the exact title is already
// persisted. Callers use it as a pre-write guard; Save does not
// re-check inside its transaction.
func (r *GormRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Form{}).Where("title = ?", title).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts the form row and every field row in one transaction and
// returns the generated form id. A partial aggregate is never left
// behind: any failed field insert rolls back the form insert too.
func (r *GormRepository) Save(ctx context.Context, title string, fields []Field) (int, error) {
	var formID int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity := Form{Title: title}
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}
		formID = entity.FormID

		return insertFields(tx, formID, fields)
	})
	if err != nil {
		return 0, err
	}

	return formID, nil
}

// FindWithFields loads the form header and its fields, ordered as
// submitted, with each field's selected option value text joined in.
// Returns gorm.ErrRecordNotFound when the id does not exist.
func (r *GormRepository) FindWithFields(ctx context.Context, formID int) (*Form, error) {
	var entity Form
	if err := r.db.WithContext(ctx).First(&entity, "form_id = ?", formID).Error; err != nil {
		return nil, err
	}

	var fields []Field
	err := r.db.WithContext(ctx).
		Table("form_fields AS ff").
		Select("ff.field_id, ff.form_id, ff.label, ff.is_required, ff.option_id, ff.selected_option_value_id, ov.value AS selected_option").
		Joins("LEFT JOIN option_values ov ON ov.option_value_id = ff.selected_option_value_id").
		Where("ff.form_id = ?", formID).
		Order("ff.field_id ASC").
		Scan(&fields).Error
	if err != nil {
		return nil, err
	}

	entity.Fields = fields
	return &entity, nil
}

// Update replaces the whole aggregate in one transaction: the title is
// rewritten, every existing field row is deleted and the submitted
// field list is inserted in full. Partial updates are not supported.
func (r *GormRepository) Update(ctx context.Context, payload *Form) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Form{}).Where("form_id = ?", payload.FormID).Update("title", payload.Title)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errFormMissing
		}

		if err := tx.Where("form_id = ?", payload.FormID).Delete(&Field{}).Error; err != nil {
			return err
		}

		return insertFields(tx, payload.FormID, payload.Fields)
	})
	if errors.Is(err, errFormMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Delete removes the fields and then the form row in one transaction.
// The result reports whether the form row itself was removed; deleting
// zero field rows is not a failure.
func (r *GormRepository) Delete(ctx context.Context, formID int) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", formID).Delete(&Field{}).Error; err != nil {
			return err
		}

		result := tx.Where("form_id = ?", formID).Delete(&Form{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errFormMissing
		}
		return nil
	})
	if errors.Is(err, errFormMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Paged serves one page of form headers. TotalCount ignores the search
// term; FilteredCount is the size of the searched set.
func (r *GormRepository) Paged(ctx context.Context, req paging.Request) (paging.Result[Form], error) {
	var result paging.Result[Form]
	if err := req.Validate(); err != nil {
		return result, err
	}

	if err := r.db.WithContext(ctx).Model(&Form{}).Count(&result.TotalCount).Error; err != nil {
		return result, err
	}

	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&Form{})
		if req.HasSearch() {
			query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+req.SearchTerm()+"%")
		}
		return query
	}

	if err := filtered().Count(&result.FilteredCount).Error; err != nil {
		return result, err
	}

	err := filtered().
		Order(req.OrderClause("form_id", "form_id", "title", "created_date")).
		Offset(req.Skip).
		Limit(req.PageSize).
		Find(&result.Rows).Error
	if err != nil {
		return paging.Result[Form]{}, err
	}

	return result, nil
}

func insertFields(tx *gorm.DB, formID int, fields []Field) error {
	for i := range fields {
		entity := Field{
			FormID:                formID,
			Label:                 fields[i].Label,
			IsRequired:            fields[i].IsRequired,
			OptionID:              fields[i].OptionID,
			SelectedOptionValueID: fields[i].SelectedOptionValueID,
		}
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether an error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
