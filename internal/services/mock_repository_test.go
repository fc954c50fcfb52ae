package services

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

// memoryRepository is an in-memory Repository used by the service tests. It
// enforces the same uniqueness rules as the postgres schema so constraint
// violations surface as ConstraintError exactly like the real store.
type memoryRepository struct {
	users       map[uint]*models.User
	students    map[uint]*models.Student
	teachers    map[uint]*models.Teacher
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	// course id -> teacher ids
	courseTeachers map[uint][]uint

	nextID uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users:          make(map[uint]*models.User),
		students:       make(map[uint]*models.Student),
		teachers:       make(map[uint]*models.Teacher),
		courses:        make(map[uint]*models.Course),
		enrollments:    make(map[uint]*models.Enrollment),
		courseTeachers: make(map[uint][]uint),
	}
}

func (m *memoryRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryRepository) User() repositories.UserRepository             { return &memUserRepo{m} }
func (m *memoryRepository) Student() repositories.StudentRepository       { return &memStudentRepo{m} }
func (m *memoryRepository) Teacher() repositories.TeacherRepository       { return &memTeacherRepo{m} }
func (m *memoryRepository) Course() repositories.CourseRepository         { return &memCourseRepo{m} }
func (m *memoryRepository) Enrollment() repositories.EnrollmentRepository { return &memEnrollmentRepo{m} }

func (m *memoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }
func (m *memoryRepository) Close() error                   { return nil }

func constraintErr(name string) error {
	return &repositories.ConstraintError{Constraint: name, Err: fmt.Errorf("duplicate key")}
}

// ===== USERS =====

type memUserRepo struct{ m *memoryRepository }

func (r *memUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	for _, u := range r.m.users {
		if u.Username == user.Username {
			return constraintErr("username already exists")
		}
		if u.Email == user.Email {
			return constraintErr("email already exists")
		}
	}
	user.ID = r.m.id()
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	for _, u := range r.m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.User, int64, error) {
	ids := sortedKeys(r.m.users)
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		copied := *r.m.users[id]
		out = append(out, &copied)
	}
	return paginate(out, filters.Limit, filters.Offset), int64(len(ids)), nil
}

func (r *memUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, u := range r.m.users {
		if u.ID != user.ID && u.Username == user.Username {
			return constraintErr("username already exists")
		}
		if u.ID != user.ID && u.Email == user.Email {
			return constraintErr("email already exists")
		}
	}
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := r.m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, t := range r.m.teachers {
		if t.UserID == id {
			return constraintErr("user is referenced by a teacher profile")
		}
	}
	for _, s := range r.m.students {
		if s.UserID != nil && *s.UserID == id {
			s.UserID = nil
		}
	}
	delete(r.m.users, id)
	return nil
}

// ===== STUDENTS =====

type memStudentRepo struct{ m *memoryRepository }

func (r *memStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	for _, s := range r.m.students {
		if s.StudentCode == student.StudentCode {
			return constraintErr("student code already exists")
		}
		if s.Email == student.Email {
			return constraintErr("email already exists")
		}
		if student.UserID != nil && s.UserID != nil && *s.UserID == *student.UserID {
			return constraintErr("user already linked to a student")
		}
	}
	student.ID = r.m.id()
	copied := *student
	r.m.students[student.ID] = &copied
	return nil
}

func (r *memStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	s, ok := r.m.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	copied.Enrollments = nil
	for _, eid := range sortedKeys(r.m.enrollments) {
		if r.m.enrollments[eid].StudentID == id {
			copied.Enrollments = append(copied.Enrollments, *r.m.enrollments[eid])
		}
	}
	return &copied, nil
}

func (r *memStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	for _, s := range r.m.students {
		if s.UserID != nil && *s.UserID == userID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Student, int64, error) {
	ids := sortedKeys(r.m.students)
	out := make([]*models.Student, 0, len(ids))
	for _, id := range ids {
		copied := *r.m.students[id]
		out = append(out, &copied)
	}
	return paginate(out, filters.Limit, filters.Offset), int64(len(ids)), nil
}

func (r *memStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if _, ok := r.m.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, s := range r.m.students {
		if s.ID != student.ID && s.StudentCode == student.StudentCode {
			return constraintErr("student code already exists")
		}
		if s.ID != student.ID && s.Email == student.Email {
			return constraintErr("email already exists")
		}
	}
	copied := *student
	copied.Enrollments = nil
	r.m.students[student.ID] = &copied
	return nil
}

func (r *memStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := r.m.students[id]; !ok {
		return repositories.ErrNotFound
	}
	for eid, e := range r.m.enrollments {
		if e.StudentID == id {
			delete(r.m.enrollments, eid)
		}
	}
	delete(r.m.students, id)
	return nil
}

// ===== TEACHERS =====

type memTeacherRepo struct{ m *memoryRepository }

func (r *memTeacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	for _, t := range r.m.teachers {
		if t.UserID == teacher.UserID {
			return constraintErr("user already linked to a teacher")
		}
		if t.Email == teacher.Email {
			return constraintErr("email already exists")
		}
	}
	teacher.ID = r.m.id()
	copied := *teacher
	r.m.teachers[teacher.ID] = &copied
	return nil
}

func (r *memTeacherRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	t, ok := r.m.teachers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memTeacherRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error) {
	for _, t := range r.m.teachers {
		if t.UserID == userID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memTeacherRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Teacher, int64, error) {
	ids := sortedKeys(r.m.teachers)
	out := make([]*models.Teacher, 0, len(ids))
	for _, id := range ids {
		copied := *r.m.teachers[id]
		out = append(out, &copied)
	}
	return paginate(out, filters.Limit, filters.Offset), int64(len(ids)), nil
}

func (r *memTeacherRepo) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if _, ok := r.m.teachers[teacher.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *teacher
	r.m.teachers[teacher.ID] = &copied
	return nil
}

func (r *memTeacherRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := r.m.teachers[id]; !ok {
		return repositories.ErrNotFound
	}
	for courseID, teacherIDs := range r.m.courseTeachers {
		kept := teacherIDs[:0]
		for _, tid := range teacherIDs {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		r.m.courseTeachers[courseID] = kept
	}
	delete(r.m.teachers, id)
	return nil
}

// ===== COURSES =====

type memCourseRepo struct{ m *memoryRepository }

func (r *memCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	for _, c := range r.m.courses {
		if c.CourseCode == course.CourseCode {
			return constraintErr("course code already exists")
		}
	}
	course.ID = r.m.id()
	copied := *course
	r.m.courses[course.ID] = &copied
	return nil
}

func (r *memCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	c, ok := r.m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Course, int64, error) {
	ids := sortedKeys(r.m.courses)
	out := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		copied := *r.m.courses[id]
		out = append(out, &copied)
	}
	return paginate(out, filters.Limit, filters.Offset), int64(len(ids)), nil
}

func (r *memCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if _, ok := r.m.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, c := range r.m.courses {
		if c.ID != course.ID && c.CourseCode == course.CourseCode {
			return constraintErr("course code already exists")
		}
	}
	copied := *course
	r.m.courses[course.ID] = &copied
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := r.m.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	for eid, e := range r.m.enrollments {
		if e.CourseID == id {
			delete(r.m.enrollments, eid)
		}
	}
	delete(r.m.courseTeachers, id)
	delete(r.m.courses, id)
	return nil
}

func (r *memCourseRepo) AssignTeacher(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error {
	if _, ok := r.m.teachers[teacherID]; !ok {
		return constraintErr("teacher does not exist")
	}
	r.m.courseTeachers[courseID] = append(r.m.courseTeachers[courseID], teacherID)
	return nil
}

func (r *memCourseRepo) ReplaceTeachers(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error {
	if _, ok := r.m.teachers[teacherID]; !ok {
		return constraintErr("teacher does not exist")
	}
	r.m.courseTeachers[courseID] = []uint{teacherID}
	return nil
}

func (r *memCourseRepo) GetTeachers(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Teacher, error) {
	var out []*models.Teacher
	for _, tid := range r.m.courseTeachers[courseID] {
		if t, ok := r.m.teachers[tid]; ok {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memCourseRepo) GetCoursesByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, courseID := range sortedKeys(r.m.courses) {
		for _, tid := range r.m.courseTeachers[courseID] {
			if tid == teacherID {
				copied := *r.m.courses[courseID]
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

// ===== ENROLLMENTS =====

type memEnrollmentRepo struct{ m *memoryRepository }

func (r *memEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if _, ok := r.m.students[enrollment.StudentID]; !ok {
		return constraintErr("student does not exist")
	}
	if _, ok := r.m.courses[enrollment.CourseID]; !ok {
		return constraintErr("course does not exist")
	}
	for _, e := range r.m.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return constraintErr("student is already enrolled in this course")
		}
	}
	enrollment.ID = r.m.id()
	copied := *enrollment
	copied.Student = nil
	copied.Course = nil
	r.m.enrollments[enrollment.ID] = &copied
	return nil
}

func (r *memEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	e, ok := r.m.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *e
	if s, ok := r.m.students[e.StudentID]; ok {
		sc := *s
		copied.Student = &sc
	}
	if c, ok := r.m.courses[e.CourseID]; ok {
		cc := *c
		copied.Course = &cc
	}
	return &copied, nil
}

func (r *memEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var matched []*models.Enrollment
	for _, id := range sortedKeys(r.m.enrollments) {
		e := r.m.enrollments[id]
		if filters.StudentID != nil && e.StudentID != *filters.StudentID {
			continue
		}
		if filters.CourseIDs != nil && !containsID(filters.CourseIDs, e.CourseID) {
			continue
		}
		loaded, _ := r.GetByID(ctx, tx, id)
		matched = append(matched, loaded)
	}
	return paginate(matched, filters.Limit, filters.Offset), int64(len(matched)), nil
}

func (r *memEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if _, ok := r.m.enrollments[enrollment.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *enrollment
	copied.Student = nil
	copied.Course = nil
	r.m.enrollments[enrollment.ID] = &copied
	return nil
}

func (r *memEnrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, ok := r.m.enrollments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.enrollments, id)
	return nil
}

// ===== HELPERS =====

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
