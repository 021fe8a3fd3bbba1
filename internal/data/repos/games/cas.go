package games

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updateByVersion applies updates and increments version only when id+version match.
// It is the compare-and-set that serializes concurrent writers of one game.
func updateByVersion(txx *gorm.DB, id uuid.UUID, expectedVersion int, updates map[string]any) (bool, error) {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["version"] = expectedVersion + 1
	updates["updated_at"] = time.Now().UTC()
	res := txx.Model(&GameRecord{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
