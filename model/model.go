package model

// Student 学生
type Student struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name"`
	Age    int    `gorm:"column:age"`
	Gender string `gorm:"column:gender"`
	Grade  string `gorm:"column:grade"`
}

func (Student) TableName() string {
	return "students"
}

// Score 某个学生某一科的成绩. StudentID 引用 students.id, 但不做校验
type Score struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	StudentID int64  `gorm:"column:student_id"`
	Subject   string `gorm:"column:subject"`
	Score     int    `gorm:"column:score"`
}

func (Score) TableName() string {
	return "scores"
}
