// domain/product.go
package domain

import (
	"context"
	"fmt"
	"strings"
)

// ProductRepository persists products. Lookups that find nothing return a nil
// product and a nil error.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAllByCategory(ctx context.Context, category string) ([]Product, error)
	FindPage(ctx context.Context, offset, limit int) ([]Product, error)
	Count(ctx context.Context) (int64, error)

	// Save inserts the product when its ID is zero and updates it otherwise.
	Save(ctx context.Context, product *Product) error

	Delete(ctx context.Context, id int64) error
}

// Action is a kind of mutating catalog operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseActions converts configuration values such as "create" or " Delete "
// into actions.
func ParseActions(values []string) ([]Action, error) {
	actions := make([]Action, 0, len(values))
	for _, v := range values {
		a := Action(strings.ToLower(strings.TrimSpace(v)))
		switch a {
		case "":
			continue
		case ActionCreate, ActionUpdate, ActionDelete:
			actions = append(actions, a)
		default:
			return nil, fmt.Errorf("unknown action kind %q", v)
		}
	}
	return actions, nil
}
