package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// toggleRow flips the existence of a uniquely constrained row. The insert is
// conditional, so two racing toggles never trip the unique index; the loser
// of the insert turns into a delete. Must run inside a transaction.
func toggleRow(tx *gorm.DB, row, model interface{}, query string, args ...interface{}) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if err := tx.Where(query, args...).Delete(model).Error; err != nil {
		return false, err
	}
	return false, nil
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
