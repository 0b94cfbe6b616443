package models

import "time"

type Todo struct {
	TodoID    string    `gorm:"primaryKey" bson:"_id" json:"id"`
	UserID    string    `gorm:"not null;index" bson:"user_id" json:"user_id"`
	Content   string    `gorm:"not null" bson:"content" json:"content"`
	Important bool      `gorm:"not null;default:false" bson:"important" json:"important"`
	Done      bool      `gorm:"column:task_done;not null;default:false" bson:"task_done" json:"task_done"`
	CreatedAt time.Time `gorm:"index" bson:"created_at" json:"created_at"`
}

func (Todo) TableName() string { return "app_todo.todos" }

// TodoFilter selects which of a user's todos List returns.
type TodoFilter string

const (
	FilterAll       TodoFilter = "all"
	FilterPending   TodoFilter = "pending"
	FilterImportant TodoFilter = "important"
)

func ParseTodoFilter(s string) (TodoFilter, bool) {
	switch TodoFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterPending:
		return FilterPending, true
	case FilterImportant:
		return FilterImportant, true
	}
	return "", false
}

// Matches reports whether t belongs in a list selected by f.
func (f TodoFilter) Matches(t *Todo) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterImportant:
		return t.Important
	}
	return true
}

// TodoPatch carries the optional fields of a todo update.
type TodoPatch struct {
	Important *bool `json:"important,omitempty"`
	Done      *bool `json:"task_done,omitempty"`
}

func (p TodoPatch) Empty() bool {
	return p.Important == nil && p.Done == nil
}

func (p TodoPatch) Apply(t *Todo) {
	if p.Important != nil {
		t.Important = *p.Important
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}
