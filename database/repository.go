package database

import (
	"errors"

	"gorm.io/gorm"

	"leafstage/models"
)

var ErrNotFound = errors.New("diagnosis not found")

// Repository stores the full record of every committed diagnosis.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(rec *models.DiagnosisRecord) error {
	return r.db.Create(rec).Error
}

// Record stores a committed diagnosis.
func (r *Repository) Record(d *models.Diagnosis) error {
	return r.Create(models.NewDiagnosisRecord(d))
}

func (r *Repository) Get(id string) (*models.DiagnosisRecord, error) {
	var rec models.DiagnosisRecord
	err := r.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns records newest first, plus the total count.
func (r *Repository) List(limit, offset int) ([]models.DiagnosisRecord, int64, error) {
	var recs []models.DiagnosisRecord
	if err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.Model(&models.DiagnosisRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&models.DiagnosisRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.DiagnosisRecord{}).Error
}

type Statistics struct {
	TotalDiagnoses int64            `json:"total_diagnoses"`
	ByStage        map[string]int64 `json:"by_stage"`
	AvgSeverity    float64          `json:"avg_severity"`
	AvgConfidence  float64          `json:"avg_confidence"`
}

func (r *Repository) Statistics() (*Statistics, error) {
	stats := &Statistics{ByStage: make(map[string]int64)}
	for _, s := range models.Stages {
		stats.ByStage[string(s)] = 0
	}

	if err := r.db.Model(&models.DiagnosisRecord{}).Count(&stats.TotalDiagnoses).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Stage string
		Count int64
	}
	if err := r.db.Model(&models.DiagnosisRecord{}).Select("stage, COUNT(*) AS count").Group("stage").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStage[row.Stage] = row.Count
	}

	var avg struct {
		Severity   *float64
		Confidence *float64
	}
	if err := r.db.Model(&models.DiagnosisRecord{}).
		Select("AVG(severity_score) AS severity, AVG(confidence) AS confidence").
		Where("stage <> ?", string(models.StageInvalid)).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Severity != nil {
		stats.AvgSeverity = *avg.Severity
	}
	if avg.Confidence != nil {
		stats.AvgConfidence = *avg.Confidence
	}
	return stats, nil
}
