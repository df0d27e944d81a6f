package Services

import (
	"context"

	"gorm.io/gorm"
)

// Patch is a typed partial update: only the fields that were supplied are
// written, in one UPDATE with bound parameters. Columns come from code,
// never from the request.
type Patch struct {
	columns map[string]interface{}
}

func NewPatch() *Patch {
	return &Patch{columns: make(map[string]interface{})}
}

// Set records column=value
func (p *Patch) Set(column string, value interface{}) *Patch {
	p.columns[column] = value
	return p
}

// SetIf records column=*value when value is non-nil
func SetIf[T any](p *Patch, column string, value *T) *Patch {
	if value != nil {
		p.columns[column] = *value
	}
	return p
}

func (p *Patch) Empty() bool {
	return len(p.columns) == 0
}

func (p *Patch) Columns() map[string]interface{} {
	out := make(map[string]interface{}, len(p.columns))
	for k, v := range p.columns {
		out[k] = v
	}
	return out
}

// Apply updates the row of model identified by pkColumn = id.
// An empty patch is a validation error; no matching row is NotFound.
func (p *Patch) Apply(ctx context.Context, db *gorm.DB, model interface{}, pkColumn string, id uint, entity string) error {
	if p.Empty() {
		return Validation("No fields to update")
	}
	result := db.WithContext(ctx).Model(model).Where(pkColumn+" = ?", id).Updates(p.Columns())
	if result.Error != nil {
		return Persistence("Failed to update "+entity, result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 rows when values are unchanged, so check existence
		var count int64
		if err := db.WithContext(ctx).Model(model).Where(pkColumn+" = ?", id).Count(&count).Error; err != nil {
			return Persistence("Failed to update "+entity, err)
		}
		if count == 0 {
			return NotFound(capitalize(entity) + " not found")
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
