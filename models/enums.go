package models

type Role int

const (
	RoleUser Role = iota
	RoleAdmin
	RoleAuthority
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAuthority:
		return "Authority"
	default:
		return "User"
	}
}

func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleAuthority
}

// CanAdminister reports whether r may manage users.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// CanTriage reports whether r may work the report queue.
func (r Role) CanTriage() bool {
	return r == RoleAuthority || r == RoleAdmin
}

type Badge int

const (
	BadgeNewcomer Badge = iota + 1
	BadgeContributor
	BadgeTrusted
	BadgeGuardian
	BadgeVanguard
)

func (b Badge) String() string {
	switch b {
	case BadgeContributor:
		return "Contributor"
	case BadgeTrusted:
		return "Trusted"
	case BadgeGuardian:
		return "Guardian"
	case BadgeVanguard:
		return "Vanguard"
	default:
		return "Newcomer"
	}
}

func (b Badge) Valid() bool {
	return b >= BadgeNewcomer && b <= BadgeVanguard
}

type ReportCategory int

const (
	CategorySecurity ReportCategory = iota + 1
	CategoryPublicSafety
	CategoryTraffic
	CategoryEnvironment
	CategoryOther
)

func (c ReportCategory) String() string {
	switch c {
	case CategorySecurity:
		return "Security"
	case CategoryPublicSafety:
		return "PublicSafety"
	case CategoryTraffic:
		return "Traffic"
	case CategoryEnvironment:
		return "Environment"
	default:
		return "Other"
	}
}

func (c ReportCategory) Valid() bool {
	return c >= CategorySecurity && c <= CategoryOther
}

type Visibility int

const (
	VisibilityPublic Visibility = iota + 1
	VisibilityConfidential
	VisibilityAnonymous
)

func (v Visibility) Valid() bool {
	return v >= VisibilityPublic && v <= VisibilityAnonymous
}

type ReportStatus int

const (
	StatusPending ReportStatus = iota + 1
	StatusInReview
	StatusDispatched
	StatusResolved
	StatusRejected
)

func (s ReportStatus) String() string {
	switch s {
	case StatusInReview:
		return "InReview"
	case StatusDispatched:
		return "Dispatched"
	case StatusResolved:
		return "Resolved"
	case StatusRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

func (s ReportStatus) Valid() bool {
	return s >= StatusPending && s <= StatusRejected
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleAuthority} {
		if r.String() == s {
			return r, true
		}
	}
	return RoleUser, false
}
