package implementation

import (
	"errors"

	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/specification"

	"gorm.io/gorm"
)

// translateError maps gorm's translated driver errors onto the contract.
// Requires gorm.Config.TranslateError.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateKey
	}
	return err
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
