package models

import (
	"fmt"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
)

// MaxSubjectNameLength matches the subjects.name column.
const MaxSubjectNameLength = 200

// Teacher is a person teaching one or more subjects.
type Teacher struct {
	ID        ids.TeacherID
	FirstName string
	LastName  string
	Subjects  []*Subject
}

// NewTeacher creates a teacher with a fresh ID.
func NewTeacher(firstName, lastName string) (*Teacher, error) {
	if err := validateValue("first_name", firstName, "notblank,max=100", common.ErrValidation); err != nil {
		return nil, err
	}
	if err := validateValue("last_name", lastName, "notblank,max=100", common.ErrValidation); err != nil {
		return nil, err
	}
	return &Teacher{ID: ids.NewTeacherID(), FirstName: firstName, LastName: lastName}, nil
}

func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// AddSubject links s to the teacher. s.TeacherID must be the teacher's ID.
func (t *Teacher) AddSubject(s *Subject) error {
	if s == nil {
		return common.NewInvalidArgumentError("subject", "must not be nil")
	}
	if s.TeacherID != t.ID {
		return common.NewOwnershipError("subject", "subject is taught by another teacher")
	}
	t.Subjects = append(t.Subjects, s)
	return nil
}

// SchoolYear is an academic year such as 2024/2025.
type SchoolYear struct {
	ID        ids.SchoolYearID
	StartYear int
	EndYear   int
	Subjects  []*Subject
}

// NewSchoolYear creates a school year with a fresh ID. endYear may not
// precede startYear.
func NewSchoolYear(startYear, endYear int) (*SchoolYear, error) {
	if endYear < startYear {
		return nil, common.NewInvalidArgumentError("end_year", "must not precede start_year")
	}
	return &SchoolYear{ID: ids.NewSchoolYearID(), StartYear: startYear, EndYear: endYear}, nil
}

// Label formats the year as "StartYear/EndYear".
func (sy *SchoolYear) Label() string {
	return fmt.Sprintf("%d/%d", sy.StartYear, sy.EndYear)
}

// AddSubject links s to the school year. s.SchoolYearID must match.
func (sy *SchoolYear) AddSubject(s *Subject) error {
	if s == nil {
		return common.NewInvalidArgumentError("subject", "must not be nil")
	}
	if s.SchoolYearID != sy.ID {
		return common.NewOwnershipError("subject", "subject belongs to another school year")
	}
	sy.Subjects = append(sy.Subjects, s)
	return nil
}

// Subject is a course taught by one teacher in one school year.
type Subject struct {
	ID           ids.SubjectID
	Name         string
	TeacherID    ids.TeacherID
	SchoolYearID ids.SchoolYearID
	Marks        []*Mark
}

// NewSubject creates a subject with a fresh ID.
func NewSubject(name string, teacherID ids.TeacherID, schoolYearID ids.SchoolYearID) (*Subject, error) {
	if err := validateValue("name", name, "notblank,max=200", common.ErrValidation); err != nil {
		return nil, err
	}
	if teacherID.IsZero() {
		return nil, common.NewInvalidArgumentError("teacher_id", "must not be empty")
	}
	if schoolYearID.IsZero() {
		return nil, common.NewInvalidArgumentError("school_year_id", "must not be empty")
	}
	return &Subject{
		ID:           ids.NewSubjectID(),
		Name:         name,
		TeacherID:    teacherID,
		SchoolYearID: schoolYearID,
	}, nil
}

// AddMark links m to the subject. m.SubjectID must be the subject's ID.
func (s *Subject) AddMark(m *Mark) error {
	if m == nil {
		return common.NewInvalidArgumentError("mark", "must not be nil")
	}
	if m.SubjectID != s.ID {
		return common.NewOwnershipError("mark", "mark belongs to another subject")
	}
	s.Marks = append(s.Marks, m)
	return nil
}

// WeightedAverage is sum(value*weight)/sum(weight) over the marks, or 0
// when there are no marks or all weights are zero.
func (s *Subject) WeightedAverage() float64 {
	var sum, weights int
	for _, m := range s.Marks {
		sum += m.Value * m.Weight
		weights += m.Weight
	}
	if weights == 0 {
		return 0
	}
	return float64(sum) / float64(weights)
}

// Mark is a single grade within a subject.
type Mark struct {
	ID        ids.MarkID
	Value     int
	Weight    int
	SubjectID ids.SubjectID
}

// NewMark creates a mark with a fresh ID. weight must not be negative.
func NewMark(subjectID ids.SubjectID, value, weight int) (*Mark, error) {
	if subjectID.IsZero() {
		return nil, common.NewInvalidArgumentError("subject_id", "must not be empty")
	}
	if weight < 0 {
		return nil, common.NewInvalidArgumentError("weight", "must not be negative")
	}
	return &Mark{ID: ids.NewMarkID(), Value: value, Weight: weight, SubjectID: subjectID}, nil
}
