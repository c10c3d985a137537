// Package predictor fits a one-feature linear regression of a student's scores
// on their subjects and measures it on a held-out subset.
package predictor

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/toddlerya/schoolrecords/model"
	"gorm.io/gorm"
)

var (
	// ErrNoScores is returned when the student has no recorded scores. Nothing is fitted.
	ErrNoScores = errors.New("no scores found for the given student ID")
	// ErrInsufficientData is returned when the split leaves no training observations.
	ErrInsufficientData = errors.New("not enough scores to train a model")
)

const (
	DefaultSeed      uint64  = 42
	DefaultTestRatio float64 = 0.2
)

// Option configures a Predictor.
type Option func(*options)

type options struct {
	seed      uint64
	testRatio float64
	plotPath  string
}

// WithSeed sets the seed of the train/test shuffle.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTestRatio sets the share of observations held out for testing.
func WithTestRatio(ratio float64) Option {
	return func(o *options) {
		o.testRatio = ratio
	}
}

// WithPlotPath enables the scatter plot. An empty path disables it.
func WithPlotPath(path string) Option {
	return func(o *options) {
		o.plotPath = path
	}
}

// Report is the outcome of one prediction run.
type Report struct {
	StudentID  int64
	Categories []string
	Model      Model
	TrainSize  int
	TestSize   int
	TestCodes  []float64
	Actual     []float64
	Predicted  []float64
	MSE        float64
	PlotPath   string
}

type Predictor struct {
	db   *gorm.DB
	opts *options
}

func New(db *gorm.DB, opts ...Option) *Predictor {
	o := &options{
		seed:      DefaultSeed,
		testRatio: DefaultTestRatio,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Predictor{db: db, opts: o}
}

// Predict loads the student's scores, fits score against subject code on the
// training subset and reports the mean squared error on the test subset.
func (p *Predictor) Predict(studentID int64) (*Report, error) {
	scores, err := model.ScoresForStudent(p.db, studentID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrNoScores
	}

	subjects := make([]string, len(scores))
	y := make([]float64, len(scores))
	for i, s := range scores {
		subjects[i] = s.Subject
		y[i] = float64(s.Score)
	}
	codes, categories := EncodeSubjects(subjects)

	train, test, err := Split(len(scores), p.opts.testRatio, p.opts.seed)
	if err != nil {
		return nil, err
	}

	m := Fit(gather(codes, train), gather(y, train))
	testCodes := gather(codes, test)
	actual := gather(y, test)
	predicted := m.Predict(testCodes)

	report := &Report{
		StudentID:  studentID,
		Categories: categories,
		Model:      m,
		TrainSize:  len(train),
		TestSize:   len(test),
		TestCodes:  testCodes,
		Actual:     actual,
		Predicted:  predicted,
		MSE:        MeanSquaredError(actual, predicted),
	}
	logrus.WithFields(logrus.Fields{
		"student_id": studentID,
		"train":      report.TrainSize,
		"test":       report.TestSize,
		"mse":        report.MSE,
	}).Info("预测完成")

	if p.opts.plotPath == "" {
		return report, nil
	}
	if err := RenderScatter(p.opts.plotPath, report); err != nil {
		logrus.Errorf("绘制散点图失败: %s", err.Error())
		return report, err
	}
	report.PlotPath = p.opts.plotPath
	return report, nil
}
