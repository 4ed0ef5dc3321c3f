package optionset

// OptionSet is a named, reusable list of selectable values.
type OptionSet struct {
	OptionID int    `json:"optionId" gorm:"column:option_id;primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName maps the model onto the options table.
func (OptionSet) TableName() string { return "options" }

// OptionValue is one entry within an option set. The value is unique
// within its owning set but may repeat across sets.
type OptionValue struct {
	OptionValueID int    `json:"optionValueId" gorm:"column:option_value_id;primaryKey;autoIncrement"`
	OptionID      int    `json:"optionId" gorm:"column:option_id;not null;uniqueIndex:uq_option_set_value"`
	Value         string `json:"value" gorm:"not null;uniqueIndex:uq_option_set_value"`
}

// TableName maps the model onto the option values table.
func (OptionValue) TableName() string { return "option_values" }
