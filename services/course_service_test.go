package services

import (
	"context"
	"testing"
	"time"

	"github.com/respir-app/respir-api/database/dbtest"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func uintPtr(v uint) *uint {
	return &v
}

func TestCourseCreateDuplicateTitleConflicts(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Course{Title: "Coherence cardiaque"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.Course{Title: "Coherence cardiaque"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.Course{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCourseCreateUnknownReference(t *testing.T) {
	svc := NewCourseService(dbtest.New(t))

	_, err := svc.Create(context.Background(), &model.Course{Title: "Orphan", CategoryID: uintPtr(77)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCourseUpdatePatchSemantics(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	category := model.Category{Name: "Respiration"}
	require.NoError(t, db.Create(&category).Error)
	description := "Cinq minutes"
	created, err := svc.Create(ctx, &model.Course{
		Title:           "Pause",
		Description:     &description,
		DurationMinutes: intPtr(5),
		CategoryID:      &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Category)

	time.Sleep(2 * time.Millisecond)
	updated, err := svc.Update(ctx, created.ID, map[string]interface{}{
		"description": nil,
		"category_id": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pause", updated.Title)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Category)
	require.NotNil(t, updated.DurationMinutes)
	assert.Equal(t, 5, *updated.DurationMinutes)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestCourseUpdateTitleConflict(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Course{Title: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &model.Course{Title: "B"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, map[string]interface{}{"title": "A"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Update(ctx, 9999, map[string]interface{}{"title": "C"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCourseListFiltersAndOrdersByTitle(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	level := model.Level{Name: "Debutant"}
	require.NoError(t, db.Create(&level).Error)
	for _, title := range []string{"Zen", "Ancrage", "Marche"} {
		course := model.Course{Title: title}
		if title != "Marche" {
			course.LevelID = &level.ID
		}
		require.NoError(t, db.Create(&course).Error)
	}

	all, err := svc.List(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ancrage", all[0].Title)
	assert.Equal(t, "Zen", all[2].Title)

	filtered, err := svc.List(ctx, CourseFilter{LevelID: &level.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Debutant", filtered[0].Level.Name)
}

func TestCourseDeleteCascades(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	course, err := svc.Create(ctx, &model.Course{Title: "Sommeil"})
	require.NoError(t, err)
	_, err = svc.AddSession(ctx, course.ID, nil, &model.CourseSession{Title: "Detente"})
	require.NoError(t, err)
	user := model.User{Email: "ana@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&model.UserProgress{UserID: user.ID, CourseID: course.ID, Status: model.ProgressInProgress}).Error)

	require.NoError(t, svc.Delete(ctx, course.ID))

	var sessions, progresses int64
	require.NoError(t, db.Model(&model.CourseSession{}).Count(&sessions).Error)
	require.NoError(t, db.Model(&model.UserProgress{}).Count(&progresses).Error)
	assert.Zero(t, sessions)
	assert.Zero(t, progresses)

	assert.ErrorIs(t, svc.Delete(ctx, course.ID), apperror.ErrNotFound)
}

func TestSessionsOrderedWithNullsLast(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	course, err := svc.Create(ctx, &model.Course{Title: "Souffle"})
	require.NoError(t, err)
	for _, s := range []model.CourseSession{
		{Title: "unordered"},
		{Title: "second", Order: intPtr(2)},
		{Title: "first", Order: intPtr(1)},
	} {
		session := s
		_, err := svc.AddSession(ctx, course.ID, nil, &session)
		require.NoError(t, err)
	}

	sessions, err := svc.ListSessions(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "first", sessions[0].Title)
	assert.Equal(t, "second", sessions[1].Title)
	assert.Equal(t, "unordered", sessions[2].Title)

	loaded, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Sessions, 3)
	assert.Equal(t, "first", loaded.Sessions[0].Title)

	_, err = svc.ListSessions(ctx, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSessionCourseMismatch(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	a, err := svc.Create(ctx, &model.Course{Title: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &model.Course{Title: "B"})
	require.NoError(t, err)

	_, err = svc.AddSession(ctx, a.ID, &b.ID, &model.CourseSession{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	session, err := svc.AddSession(ctx, a.ID, &a.ID, &model.CourseSession{Title: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateSession(ctx, a.ID, session.ID, &b.ID, map[string]interface{}{"title": "y"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	// addressed through the wrong course
	_, err = svc.UpdateSession(ctx, b.ID, session.ID, nil, map[string]interface{}{"title": "y"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSession(ctx, b.ID, session.ID), apperror.ErrNotFound)
}

func TestSessionMutationsTouchCourse(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCourseService(db)
	ctx := context.Background()

	course, err := svc.Create(ctx, &model.Course{Title: "Gratitude"})
	require.NoError(t, err)
	before := course.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	session, err := svc.AddSession(ctx, course.ID, nil, &model.CourseSession{Title: "Jour 1"})
	require.NoError(t, err)
	afterAdd, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, afterAdd.UpdatedAt.After(before))

	time.Sleep(2 * time.Millisecond)
	updated, err := svc.UpdateSession(ctx, course.ID, session.ID, nil, map[string]interface{}{"sort_order": 3})
	require.NoError(t, err)
	require.NotNil(t, updated.Order)
	assert.Equal(t, 3, *updated.Order)
	assert.Equal(t, "Jour 1", updated.Title)
	afterUpdate, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, afterUpdate.UpdatedAt.After(afterAdd.UpdatedAt))

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, svc.DeleteSession(ctx, course.ID, session.ID))
	afterDelete, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, afterDelete.UpdatedAt.After(afterUpdate.UpdatedAt))
	assert.Empty(t, afterDelete.Sessions)
}
