package models

// Points awarded to a reporter when an authority closes a report.
const (
	ResolvedReportPoints = 10
	RejectedReportPoints = -5
)

// DetermineBadge maps a point total to its badge tier.
func DetermineBadge(points int) Badge {
	switch {
	case points >= 500:
		return BadgeVanguard
	case points >= 200:
		return BadgeGuardian
	case points >= 100:
		return BadgeTrusted
	case points >= 50:
		return BadgeContributor
	default:
		return BadgeNewcomer
	}
}

// ApplyPoints adds delta to the user's points, never going below zero,
// and refreshes the badge.
func (u *User) ApplyPoints(delta int) int {
	u.TrustPoints += delta
	if u.TrustPoints < 0 {
		u.TrustPoints = 0
	}
	u.Badge = DetermineBadge(u.TrustPoints)
	return u.TrustPoints
}

// StatusPointsDelta returns the trust point change a status transition earns.
func StatusPointsDelta(status ReportStatus) int {
	switch status {
	case StatusResolved:
		return ResolvedReportPoints
	case StatusRejected:
		return RejectedReportPoints
	default:
		return 0
	}
}
