package ids

type (
	UserKind            struct{}
	UserSessionKind     struct{}
	HydrationRecordKind struct{}
	MarkKind            struct{}
	SubjectKind         struct{}
	TeacherKind         struct{}
	SchoolYearKind      struct{}
)

func (UserKind) Prefix() string            { return "USR" }
func (UserSessionKind) Prefix() string     { return "USESS" }
func (HydrationRecordKind) Prefix() string { return "HR" }
func (MarkKind) Prefix() string            { return "MARK" }
func (SubjectKind) Prefix() string         { return "SUB" }
func (TeacherKind) Prefix() string         { return "TCHR" }
func (SchoolYearKind) Prefix() string      { return "SY" }

type (
	UserID            = ID[UserKind]
	UserSessionID     = ID[UserSessionKind]
	HydrationRecordID = ID[HydrationRecordKind]
	MarkID            = ID[MarkKind]
	SubjectID         = ID[SubjectKind]
	TeacherID         = ID[TeacherKind]
	SchoolYearID      = ID[SchoolYearKind]
)

func NewUserID() UserID                       { return New[UserKind]() }
func NewUserSessionID() UserSessionID         { return New[UserSessionKind]() }
func NewHydrationRecordID() HydrationRecordID { return New[HydrationRecordKind]() }
func NewMarkID() MarkID                       { return New[MarkKind]() }
func NewSubjectID() SubjectID                 { return New[SubjectKind]() }
func NewTeacherID() TeacherID                 { return New[TeacherKind]() }
func NewSchoolYearID() SchoolYearID           { return New[SchoolYearKind]() }

// UserIDFrom and its siblings rebuild identifiers read back from storage.
func UserIDFrom(s string) (UserID, error)                       { return Parse[UserKind](s) }
func UserSessionIDFrom(s string) (UserSessionID, error)         { return Parse[UserSessionKind](s) }
func HydrationRecordIDFrom(s string) (HydrationRecordID, error) { return Parse[HydrationRecordKind](s) }
func MarkIDFrom(s string) (MarkID, error)                       { return Parse[MarkKind](s) }
func SubjectIDFrom(s string) (SubjectID, error)                 { return Parse[SubjectKind](s) }
func TeacherIDFrom(s string) (TeacherID, error)                 { return Parse[TeacherKind](s) }
func SchoolYearIDFrom(s string) (SchoolYearID, error)           { return Parse[SchoolYearKind](s) }
