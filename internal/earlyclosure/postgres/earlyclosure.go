package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/earlyclosure"
	"gorm.io/gorm"
)

// EarlyClosureRepository implements the earlyclosure.Repository interface using GORM
type EarlyClosureRepository struct {
	db *gorm.DB
}

func NewEarlyClosureRepository(db *gorm.DB) earlyclosure.Repository {
	return &EarlyClosureRepository{db: db}
}

func (r *EarlyClosureRepository) Create(ec *earlyclosure.EarlyClosure) error {
	return r.db.Create(ec).Error
}

func (r *EarlyClosureRepository) GetByID(id int64) (*earlyclosure.EarlyClosure, error) {
	var ec earlyclosure.EarlyClosure
	err := r.db.Where("id = ?", id).First(&ec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEarlyClosureNotFound
		}
		return nil, err
	}
	return &ec, nil
}

func (r *EarlyClosureRepository) GetByStaffID(staffID int64) ([]*earlyclosure.EarlyClosure, error) {
	var closures []*earlyclosure.EarlyClosure
	err := r.db.Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&closures).Error
	return closures, err
}

func (r *EarlyClosureRepository) GetAll() ([]*earlyclosure.EarlyClosure, error) {
	var closures []*earlyclosure.EarlyClosure
	err := r.db.Order("created_at DESC").Find(&closures).Error
	return closures, err
}

// UpdateStageResponse writes one stage's columns and advances the overall
// status. The status predicate makes the write a no-op when another responder
// got there first.
func (r *EarlyClosureRepository) UpdateStageResponse(id int64, stage, expected, resulting string, resp earlyclosure.StageResponse) error {
	prefix, err := stageColumnPrefix(stage)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":                 resulting,
		prefix + "_status":       resp.Decision,
		prefix + "_responded_by": resp.ResponderID,
		prefix + "_responded_at": resp.RespondedAt,
		"updated_at":             time.Now(),
	}
	if resp.Comment != nil {
		updates[prefix+"_comment"] = *resp.Comment
	}

	result := r.db.Model(&earlyclosure.EarlyClosure{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrStaleStatus
	}
	return nil
}

func stageColumnPrefix(stage string) (string, error) {
	switch stage {
	case earlyclosure.StageHOS:
		return "hos", nil
	case earlyclosure.StageHR:
		return "hr", nil
	case earlyclosure.StageDirector:
		return "director", nil
	default:
		return "", fmt.Errorf("unknown early-closure stage %q", stage)
	}
}
