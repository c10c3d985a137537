package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrStudentNotFound is returned by AddScore in strict mode when the referenced student is missing.
var ErrStudentNotFound = errors.New("student not found")

// RecordOption configures a single insert.
type RecordOption func(*recordConfig)

type recordConfig struct {
	strictReferences bool
}

// WithStrictReferences makes AddScore check that the student exists before inserting.
func WithStrictReferences() RecordOption {
	return func(c *recordConfig) {
		c.strictReferences = true
	}
}

func applyRecordOptions(opts []RecordOption) *recordConfig {
	cfg := &recordConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// AddStudent 插入一个学生并返回新分配的 id
func AddStudent(db *gorm.DB, student *Student) (int64, error) {
	if err := db.Create(student).Error; err != nil {
		return 0, fmt.Errorf("failed to insert student: %w", err)
	}
	return student.ID, nil
}

// AddScore 插入一条成绩并返回新分配的 id.
// 默认不检查 student_id 是否存在
func AddScore(db *gorm.DB, score *Score, opts ...RecordOption) (int64, error) {
	cfg := applyRecordOptions(opts)
	if cfg.strictReferences {
		exists, err := StudentExists(db, score.StudentID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, fmt.Errorf("student id %d: %w", score.StudentID, ErrStudentNotFound)
		}
	}
	if err := db.Create(score).Error; err != nil {
		return 0, fmt.Errorf("failed to insert score: %w", err)
	}
	return score.ID, nil
}

// ListStudents returns every student in insertion order.
func ListStudents(db *gorm.DB) ([]Student, error) {
	var students []Student
	if err := db.Order("id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ListScores returns every score in insertion order.
func ListScores(db *gorm.DB) ([]Score, error) {
	var scores []Score
	if err := db.Order("id").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

func ScoresForStudent(db *gorm.DB, studentID int64) ([]Score, error) {
	var scores []Score
	if err := db.Where("student_id = ?", studentID).Order("id").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to query scores for student %d: %w", studentID, err)
	}
	return scores, nil
}

func StudentExists(db *gorm.DB, studentID int64) (bool, error) {
	var count int64
	if err := db.Model(&Student{}).Where("id = ?", studentID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up student %d: %w", studentID, err)
	}
	return count > 0, nil
}
