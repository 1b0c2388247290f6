package profiles

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// ErrSchemaMismatch is returned when an existing profiles table lacks declared
// columns or does not keep usernames unique.
var ErrSchemaMismatch = errors.New("profiles table does not match the declared schema")

// EnsureSchema creates the profiles table when it is absent. An existing table
// is only checked, never altered: it must carry every column in Columns and a
// unique constraint or index on username alone.
func EnsureSchema(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}

	migrator := db.Migrator()
	if !migrator.HasTable(&Profile{}) {
		if err := migrator.CreateTable(&Profile{}); err != nil {
			return fmt.Errorf("create profiles table: %w", err)
		}
		return nil
	}

	var missing []string
	for _, column := range Columns {
		if !migrator.HasColumn(&Profile{}, column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	unique, err := hasUniqueUsername(db)
	if err != nil {
		return fmt.Errorf("inspect profiles indexes: %w", err)
	}
	if !unique {
		return fmt.Errorf("%w: username is not unique", ErrSchemaMismatch)
	}

	return nil
}

// hasUniqueUsername looks for a non-partial unique index covering exactly the
// username column, whatever created it.
func hasUniqueUsername(db *gorm.DB) (bool, error) {
	// gorm's sqlite migrator hides indexes backing UNIQUE constraints, so ask sqlite directly
	if db.Dialector.Name() == "sqlite" {
		var names []string
		err := db.Raw(`SELECT il.name FROM pragma_index_list(?) AS il, pragma_index_info(il.name) AS ii
			WHERE il."unique" = 1 AND il.partial = 0
			GROUP BY il.name
			HAVING COUNT(*) = 1 AND MAX(ii.name) = ?`, Profile{}.TableName(), "username").Scan(&names).Error
		return len(names) > 0, err
	}

	migrator := db.Migrator()
	columnTypes, err := migrator.ColumnTypes(&Profile{})
	if err != nil {
		return false, err
	}
	for _, columnType := range columnTypes {
		if columnType.Name() != "username" {
			continue
		}
		if unique, ok := columnType.Unique(); ok && unique {
			return true, nil
		}
	}

	indexes, err := migrator.GetIndexes(&Profile{})
	if err != nil {
		return false, err
	}
	for _, index := range indexes {
		if unique, ok := index.Unique(); ok && unique && slices.Equal(index.Columns(), []string{"username"}) {
			return true, nil
		}
	}
	return false, nil
}
