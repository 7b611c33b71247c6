package models

// ListValue is one permitted value of a named lookup list (departments,
// types, statuses, ...). Lists feed input widgets and filters; they are not
// foreign-key constraints, so an action may keep referencing a value that was
// later removed from its list.
type ListValue struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ListName string `gorm:"size:50;index" json:"list_name"`
	Value    string `gorm:"size:200;index" json:"value"`
}
