// Package policy decides, for every entity and verb, whether the acting
// identity may perform the operation. It is a pure rule table invoked
// explicitly by each service before any store access, so the rules are
// testable without HTTP or database plumbing. Row-level restrictions that
// need loaded data (ownership, taught-course membership) are expressed as
// predicates over that data, not as queries.
package policy

import (
	"github.com/campusops/records-service/internal/models"
)

// Actor is the authenticated identity performing an operation. The boundary
// layer verifies credentials; the policy engine trusts the pair.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

type Entity string

const (
	EntityUser       Entity = "user"
	EntityStudent    Entity = "student"
	EntityTeacher    Entity = "teacher"
	EntityCourse     Entity = "course"
	EntityEnrollment Entity = "enrollment"
)

type Verb string

const (
	VerbCreate Verb = "create"
	VerbRead   Verb = "read"
	VerbList   Verb = "list"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// rules is the coarse role matrix. Registration is self-service and not
// policy-gated, so user create here covers only admin-driven creation.
// Row-level restrictions (a teacher may only touch enrollments of courses
// they teach, a student only their own) are layered on top by the predicates
// below.
var rules = map[Entity]map[Verb][]models.UserRole{
	EntityUser: {
		VerbCreate: {models.RoleAdmin},
		VerbRead:   {models.RoleAdmin},
		VerbList:   {models.RoleAdmin},
		VerbUpdate: {models.RoleAdmin},
		VerbDelete: {models.RoleAdmin},
	},
	EntityStudent: {
		VerbCreate: {models.RoleAdmin},
		VerbRead:   {models.RoleAdmin, models.RoleTeacher},
		VerbList:   {models.RoleAdmin, models.RoleTeacher},
		VerbUpdate: {models.RoleAdmin},
		VerbDelete: {models.RoleAdmin},
	},
	EntityTeacher: {
		VerbCreate: {models.RoleAdmin},
		VerbRead:   {models.RoleAdmin},
		VerbList:   {models.RoleAdmin},
		VerbUpdate: {models.RoleAdmin},
		VerbDelete: {models.RoleAdmin},
	},
	EntityCourse: {
		VerbCreate: {models.RoleAdmin},
		VerbRead:   {models.RoleAdmin, models.RoleTeacher, models.RoleStudent},
		VerbList:   {models.RoleAdmin, models.RoleTeacher, models.RoleStudent},
		VerbUpdate: {models.RoleAdmin},
		VerbDelete: {models.RoleAdmin},
	},
	EntityEnrollment: {
		VerbCreate: {models.RoleAdmin, models.RoleTeacher},
		VerbRead:   {models.RoleAdmin, models.RoleTeacher, models.RoleStudent},
		VerbList:   {models.RoleAdmin, models.RoleTeacher, models.RoleStudent},
		VerbUpdate: {models.RoleAdmin, models.RoleTeacher},
		VerbDelete: {models.RoleAdmin},
	},
}

// Can reports whether the role passes the coarse matrix for entity/verb.
func Can(role models.UserRole, entity Entity, verb Verb) bool {
	verbs, ok := rules[entity]
	if !ok {
		return false
	}
	for _, r := range verbs[verb] {
		if r == role {
			return true
		}
	}
	return false
}

// CanReadEnrollment applies row-level scoping on a single enrollment read.
// ownStudentID is the id of the student profile linked to the actor (0 when
// none); taughtCourseIDs is the set of courses the actor teaches (nil for
// non-teachers).
func CanReadEnrollment(actor Actor, e *models.Enrollment, ownStudentID uint, taughtCourseIDs map[uint]bool) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return taughtCourseIDs[e.CourseID]
	case models.RoleStudent:
		return ownStudentID != 0 && e.StudentID == ownStudentID
	}
	return false
}

// CanGradeEnrollment applies row-level scoping on the set-grade operation.
func CanGradeEnrollment(actor Actor, e *models.Enrollment, taughtCourseIDs map[uint]bool) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return taughtCourseIDs[e.CourseID]
	}
	return false
}

// CanEnrollInCourse reports whether the actor may create an enrollment in the
// given course. Teachers are limited to courses they teach.
func CanEnrollInCourse(actor Actor, courseID uint, taughtCourseIDs map[uint]bool) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return taughtCourseIDs[courseID]
	}
	return false
}
