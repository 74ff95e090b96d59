// Package todo implements the to-do event domain: per-user events with an
// optional deadline and an optional category link.
package todo

import (
	"time"

	"github.com/rmcarvalho/tasko/internal/category"
)

// Event is a single to-do item owned by one account.
//
// Category carries the joined category row for display. It is populated on
// reads and ignored on writes, where only CategoryID matters.
type Event struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	IsDone      bool               `json:"isDone"`
	CreatedAt   time.Time          `json:"createdAt"`
	Deadline    *time.Time         `json:"deadline"`
	CategoryID  *string            `json:"categoryId"`
	Category    *category.Category `json:"category,omitempty"`
}
