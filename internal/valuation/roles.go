package valuation

import "strings"

// Role is the closed position taxonomy the trained models are keyed on.
// Hitters collapse into position groups (all outfield spots become OF);
// pitchers split into starters and relievers.
type Role string

const (
	RoleCatcher  Role = "C"
	RoleFirst    Role = "1B"
	RoleSecond   Role = "2B"
	RoleThird    Role = "3B"
	RoleShort    Role = "SS"
	RoleOutfield Role = "OF"
	RoleDH       Role = "DH"
	RoleStarter  Role = "SP"
	RoleReliever Role = "RP"
)

var pitcherPositions = map[string]bool{
	"SP": true, "RP": true, "P": true, "CL": true,
}

var positionGroups = map[string]Role{
	"SP": RoleStarter, "RP": RoleReliever, "CL": RoleReliever, "P": RoleStarter,
	"C": RoleCatcher, "1B": RoleFirst, "2B": RoleSecond, "3B": RoleThird, "SS": RoleShort,
	"LF": RoleOutfield, "CF": RoleOutfield, "RF": RoleOutfield, "OF": RoleOutfield, "DH": RoleDH,
}

// IsPitcherPosition reports whether a raw position string denotes a
// pitcher. Handedness-qualified labels (LHP, RHP) count as pitchers even
// though they are not in the standard set.
func IsPitcherPosition(position string) bool {
	pos := strings.ToUpper(strings.TrimSpace(position))
	return pitcherPositions[pos] || strings.HasSuffix(pos, "HP")
}

// RoleFromPosition maps a raw position string to its role group. Unknown
// hitter positions fall back to OF, unknown pitcher labels to SP.
func RoleFromPosition(position string) Role {
	pos := strings.ToUpper(strings.TrimSpace(position))
	if role, ok := positionGroups[pos]; ok {
		return role
	}
	if IsPitcherPosition(pos) {
		return RoleStarter
	}
	return RoleOutfield
}

// IsPitcher reports whether the role belongs to the pitcher side of the
// taxonomy.
func (r Role) IsPitcher() bool {
	return r == RoleStarter || r == RoleReliever
}

// ModelID returns the artifact identifier for this role and target
// ("aav" or "length").
func (r Role) ModelID(target string) string {
	if r.IsPitcher() {
		return "pitcher_" + target
	}
	return "batter_" + target
}

// HitterRoles lists the hitter position groups used for one-hot encoding,
// in the order the trainer emitted them.
var HitterRoles = []Role{RoleFirst, RoleSecond, RoleThird, RoleCatcher, RoleDH, RoleOutfield, RoleShort}
