package repositories

import "gorm.io/gorm"

// ExactMatch returns a case-sensitive equality condition on column.
// MySQL's default utf8mb4 collation ignores case, so the comparison is forced to binary there.
func ExactMatch(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "mysql" {
		return "BINARY " + column + " = ?"
	}
	return column + " = ?"
}
