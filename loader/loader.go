package loader

import (
	"fmt"

	"github.com/Pallinder/go-randomdata"
	"github.com/sirupsen/logrus"
	"github.com/toddlerya/schoolrecords/model"
	"gorm.io/gorm"
)

const batchSize = 1000

var Subjects = []string{"Math", "Science", "History", "Geography", "Literature", "Art"}

var grades = []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "10th", "11th", "12th"}

// Summary 记录一次生成数据的结果
type Summary struct {
	Students int
	Scores   int
}

func GenerateStudent() *model.Student {
	gender, sex := randomdata.Female, "F"
	if randomdata.Boolean() {
		gender, sex = randomdata.Male, "M"
	}
	return &model.Student{
		Name:   randomdata.FullName(gender),
		Age:    randomdata.Number(6, 19),
		Gender: sex,
		Grade:  grades[randomdata.Number(0, len(grades))],
	}
}

func GenerateStudentList(n int) []*model.Student {
	var students []*model.Student
	for i := 0; i < n; i++ {
		students = append(students, GenerateStudent())
	}
	return students
}

// GenerateScores 为一个学生生成 n 条随机成绩(0-100)
func GenerateScores(studentID int64, n int) []*model.Score {
	var scores []*model.Score
	for i := 0; i < n; i++ {
		scores = append(scores, &model.Score{
			StudentID: studentID,
			Subject:   randomdata.StringSample(Subjects...),
			Score:     randomdata.Number(0, 101),
		})
	}
	return scores
}

func InsertStudentList(db *gorm.DB, students []*model.Student) error {
	if len(students) == 0 {
		return nil
	}
	if err := db.CreateInBatches(students, batchSize).Error; err != nil {
		logrus.Error(err)
		return fmt.Errorf("failed to insert students: %w", err)
	}
	return nil
}

func InsertScoreList(db *gorm.DB, scores []*model.Score) error {
	if len(scores) == 0 {
		return nil
	}
	if err := db.CreateInBatches(scores, batchSize).Error; err != nil {
		logrus.Error(err)
		return fmt.Errorf("failed to insert scores: %w", err)
	}
	return nil
}

// Seed 在一个事务里写入 students 个随机学生, 每人 scoresPerStudent 条成绩
func Seed(db *gorm.DB, students, scoresPerStudent int) (Summary, error) {
	var summary Summary
	err := db.Transaction(func(tx *gorm.DB) error {
		studentList := GenerateStudentList(students)
		if err := InsertStudentList(tx, studentList); err != nil {
			return err
		}
		var scoreList []*model.Score
		for _, s := range studentList {
			scoreList = append(scoreList, GenerateScores(s.ID, scoresPerStudent)...)
		}
		if err := InsertScoreList(tx, scoreList); err != nil {
			return err
		}
		summary = Summary{Students: len(studentList), Scores: len(scoreList)}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	logrus.Infof("生成数据: %d 个学生, %d 条成绩", summary.Students, summary.Scores)
	return summary, nil
}
