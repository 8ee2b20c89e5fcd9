package postgres

import (
	"github.com/itcentralng/dhf-hrapp-backend/internal/evaluation"
	"gorm.io/gorm"
)

// EvaluationRepository implements the evaluation.Repository interface using GORM
type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) evaluation.Repository {
	return &EvaluationRepository{db: db}
}

// Create persists the evaluation and its grade in one transaction; the grade
// association is saved through GORM's foreign-key wiring.
func (r *EvaluationRepository) Create(ev *evaluation.Evaluation) error {
	return r.db.Create(ev).Error
}

func (r *EvaluationRepository) GetAll() ([]*evaluation.Evaluation, error) {
	var evaluations []*evaluation.Evaluation
	err := r.db.Preload("Grade").
		Order("created_at DESC").
		Find(&evaluations).Error
	return evaluations, err
}
