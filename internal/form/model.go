package form

import (
	"time"

	"gorm.io/gorm"
)

// Form is a named collection of ordered fields.
type Form struct {
	FormID      int        `json:"formId" gorm:"column:form_id;primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"not null;uniqueIndex"`
	CreatedDate *time.Time `json:"createdDate" gorm:"column:created_date"`
	Fields      []Field    `json:"fields" gorm:"-"`
}

// TableName maps the model onto the forms table.
func (Form) TableName() string { return "forms" }

// BeforeCreate stamps the creation date.
func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if f.CreatedDate == nil {
		now := time.Now().UTC()
		f.CreatedDate = &now
	}
	return nil
}

// Field is one input slot on a form. OptionID is zero when the field is
// not bound to an option set; SelectedOption is a read-only projection
// of the selected value's display text.
type Field struct {
	FieldID               int     `json:"fieldId" gorm:"column:field_id;primaryKey;autoIncrement"`
	FormID                int     `json:"formId" gorm:"column:form_id;index;not null"`
	Label                 string  `json:"label" gorm:"not null"`
	IsRequired            bool    `json:"isRequired"`
	OptionID              int     `json:"optionId" gorm:"column:option_id"`
	SelectedOptionValueID *int    `json:"selectedOptionValueId" gorm:"column:selected_option_value_id"`
	SelectedOption        *string `json:"selectedOption,omitempty" gorm:"->;-:migration"`
}

// TableName maps the model onto the form fields table.
func (Field) TableName() string { return "form_fields" }

// ToDTO converts the form into a response payload.
func (f Form) ToDTO() map[string]any {
	fields := make([]Field, 0, len(f.Fields))
	fields = append(fields, f.Fields...)

	return map[string]any{
		"formId":      f.FormID,
		"title":       f.Title,
		"createdDate": f.CreatedDate,
		"fields":      fields,
	}
}
