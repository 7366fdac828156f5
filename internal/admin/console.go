// Package admin exposes a generic JSON CRUD console over the data model.
// It has no business logic, rows are read and written as they are.
package admin

import (
	"errors"
	"fmt"
	"sync"

	"pathfinder/guide-api/internal/model"

	"gorm.io/gorm"
)

// View binds one table to the console under a URL name.
type View interface {
	Name() string
	newItem() any
	newList() any
}

type view[T any] struct {
	name string
}

// NewView returns a view over the table of T.
func NewView[T any](name string) View {
	return view[T]{name: name}
}

func (v view[T]) Name() string { return v.name }
func (v view[T]) newItem() any { return new(T) }
func (v view[T]) newList() any { return &[]T{} }

// DefaultViews lists one view per table of the data model.
func DefaultViews() []View {
	return []View{
		NewView[model.User]("users"),
		NewView[model.Profile]("profiles"),
		NewView[model.Upload]("uploads"),
		NewView[model.GuidanceSession]("guidance_sessions"),
		NewView[model.Event]("events"),
	}
}

type Console struct {
	db *gorm.DB

	mu    sync.RWMutex
	views map[string]View
	order []string
}

func NewConsole(db *gorm.DB) *Console {
	return &Console{
		db:    db,
		views: map[string]View{},
	}
}

// Register replaces the registered views with views. Calling it again with
// the same views leaves exactly one view per table.
func (c *Console) Register(views ...View) error {
	next := make(map[string]View, len(views))
	order := make([]string, 0, len(views))

	for _, v := range views {
		name := v.Name()
		if name == "" {
			return errors.New("view name can't be empty")
		}
		if _, ok := next[name]; ok {
			return fmt.Errorf("view %q registered twice", name)
		}

		next[name] = v
		order = append(order, name)
	}

	c.mu.Lock()
	c.views = next
	c.order = order
	c.mu.Unlock()

	return nil
}

// Views returns the names of the registered views in registration order.
func (c *Console) Views() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.order...)
}

func (c *Console) view(name string) (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.views[name]
	return v, ok
}
