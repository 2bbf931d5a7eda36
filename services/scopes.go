package services

import "gorm.io/gorm"

// nulls sort after set positions on every supported dialect
const (
	SessionOrder = "CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END, sort_order ASC, id ASC"
	LevelOrder   = "CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END, sort_order ASC, name ASC"
)

// OrderedSessions orders course sessions by their position within the course.
func OrderedSessions(db *gorm.DB) *gorm.DB {
	return db.Order(SessionOrder)
}

// CourseDetails preloads every reference expanded on course reads.
func CourseDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Level").
		Preload("Ambience").
		Preload("Sessions", OrderedSessions)
}

// ProgressDetails preloads the user and the fully expanded course of a progress row.
func ProgressDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Course.Category").
		Preload("Course.Level").
		Preload("Course.Ambience").
		Preload("Course.Sessions", OrderedSessions)
}
