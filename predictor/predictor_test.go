package predictor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toddlerya/schoolrecords/config"
	"github.com/toddlerya/schoolrecords/model"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "school.db")
	db, err := model.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, model.EnsureSchema(db))
	t.Cleanup(func() { model.Close(db) })
	return db
}

func addScores(t *testing.T, db *gorm.DB, studentID int64, scores map[string][]int) {
	t.Helper()
	for _, subject := range []string{"Art", "Math", "Science", "History"} {
		for _, v := range scores[subject] {
			_, err := model.AddScore(db, &model.Score{StudentID: studentID, Subject: subject, Score: v})
			require.NoError(t, err)
		}
	}
}

func TestPredictNoScores(t *testing.T) {
	db := setupTestDB(t)
	plotPath := filepath.Join(t.TempDir(), "plot.png")

	report, err := New(db, WithPlotPath(plotPath)).Predict(1)
	assert.True(t, errors.Is(err, ErrNoScores))
	assert.Nil(t, report)

	_, statErr := os.Stat(plotPath)
	assert.True(t, os.IsNotExist(statErr), "no plot should be rendered")
}

func TestPredictSingleScore(t *testing.T) {
	db := setupTestDB(t)
	addScores(t, db, 1, map[string][]int{"Math": {90}})

	_, err := New(db).Predict(1)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestPredictTwoScores(t *testing.T) {
	db := setupTestDB(t)
	sid, err := model.AddStudent(db, &model.Student{Name: "Ana", Age: 10, Gender: "F", Grade: "5th"})
	require.NoError(t, err)
	require.Equal(t, int64(1), sid)
	addScores(t, db, sid, map[string][]int{"Math": {90}, "Science": {85}})

	plotPath := filepath.Join(t.TempDir(), "plot.png")
	report, err := New(db, WithPlotPath(plotPath)).Predict(sid)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TrainSize)
	assert.Equal(t, 1, report.TestSize)
	assert.Equal(t, []string{"Math", "Science"}, report.Categories)
	assert.GreaterOrEqual(t, report.MSE, 0.0)
	assert.InDelta(t, 25.0, report.MSE, 1e-9)
	assert.Equal(t, plotPath, report.PlotPath)

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPredictLinearScores(t *testing.T) {
	db := setupTestDB(t)
	addScores(t, db, 3, map[string][]int{
		"Art":     {10, 10, 10},
		"History": {15, 15, 15},
		"Math":    {20, 20, 20},
	})

	report, err := New(db).Predict(3)
	require.NoError(t, err)

	assert.Equal(t, []string{"Art", "History", "Math"}, report.Categories)
	assert.Equal(t, 7, report.TrainSize)
	assert.Equal(t, 2, report.TestSize)
	assert.InDelta(t, 10.0, report.Model.Intercept, 1e-9)
	assert.InDelta(t, 5.0, report.Model.Slope, 1e-9)
	assert.InDelta(t, 0.0, report.MSE, 1e-9)
	assert.Empty(t, report.PlotPath)
}

func TestPredictSingleSubject(t *testing.T) {
	db := setupTestDB(t)
	addScores(t, db, 1, map[string][]int{"Math": {60, 70, 80, 90, 100}})

	report, err := New(db).Predict(1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Model.Slope)
	assert.GreaterOrEqual(t, report.MSE, 0.0)
	assert.Equal(t, 4, report.TrainSize)
}

func TestPredictIgnoresOtherStudents(t *testing.T) {
	db := setupTestDB(t)
	addScores(t, db, 1, map[string][]int{"Math": {90}, "Science": {85}})
	addScores(t, db, 2, map[string][]int{"Art": {10, 20, 30}})

	report, err := New(db).Predict(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Science"}, report.Categories)
}

func TestPredictDeterministic(t *testing.T) {
	db := setupTestDB(t)
	addScores(t, db, 1, map[string][]int{
		"Art":     {55, 60, 72},
		"Math":    {88, 91},
		"Science": {70, 64, 81, 77},
	})

	first, err := New(db).Predict(1)
	require.NoError(t, err)
	second, err := New(db).Predict(1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
