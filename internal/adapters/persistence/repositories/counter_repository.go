package repositories

import (
	"context"
	"errors"

	"hackco-expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// counterRepository implements CounterRepository interface
type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Next atomically increments and reads the named sequence. The UPDATE takes
// a row lock for the duration of the transaction, so concurrent callers get
// distinct values; the first caller for a name seeds the row at 1.
func (r *counterRepository) Next(ctx context.Context, name string) (uint, error) {
	var next uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			UpdateColumn("seq", gorm.Expr("seq + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			c := models.Counter{Name: name, Seq: 1}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
			}).Create(&c).Error; err != nil {
				return err
			}
		}

		var c models.Counter
		if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("counter row vanished mid-transaction")
			}
			return err
		}
		next = c.Seq
		return nil
	})
	return next, err
}
