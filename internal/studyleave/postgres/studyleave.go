package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/studyleave"
	"gorm.io/gorm"
)

// StudyLeaveRepository implements the studyleave.Repository interface using GORM
type StudyLeaveRepository struct {
	db *gorm.DB
}

func NewStudyLeaveRepository(db *gorm.DB) studyleave.Repository {
	return &StudyLeaveRepository{db: db}
}

func (r *StudyLeaveRepository) Create(sl *studyleave.StudyLeave) error {
	return r.db.Create(sl).Error
}

func (r *StudyLeaveRepository) GetByID(id int64) (*studyleave.StudyLeave, error) {
	var sl studyleave.StudyLeave
	err := r.db.Where("id = ?", id).First(&sl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrStudyLeaveNotFound
		}
		return nil, err
	}
	return &sl, nil
}

func (r *StudyLeaveRepository) GetByStaffID(staffID int64) ([]*studyleave.StudyLeave, error) {
	var leaves []*studyleave.StudyLeave
	err := r.db.Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *StudyLeaveRepository) GetAll() ([]*studyleave.StudyLeave, error) {
	var leaves []*studyleave.StudyLeave
	err := r.db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

// UpdateStageResponse writes one stage's columns and advances the overall
// status. The status predicate makes the write a no-op when another responder
// got there first.
func (r *StudyLeaveRepository) UpdateStageResponse(id int64, stage, expected, resulting string, resp studyleave.StageResponse) error {
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

	result := r.db.Model(&studyleave.StudyLeave{}).
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
	case studyleave.StageHOS:
		return "hos", nil
	case studyleave.StageAccountant:
		return "accountant", nil
	case studyleave.StageHR:
		return "hr", nil
	case studyleave.StageDirector:
		return "director", nil
	default:
		return "", fmt.Errorf("unknown study-leave stage %q", stage)
	}
}
