package helper

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueProductSlug appends a numeric suffix until the slug is free
// within the given catalog table. dest must be a pointer to the model struct.
func GenerateUniqueProductSlug(tx *gorm.DB, dest interface{}, name string) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(dest).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
