package domain

import "strings"

const (
	complementWeight   = 3
	sharedWeight       = 1
	roleBonus          = 2
	strongThreshold    = 6
	potentialThreshold = 3
	maxReasons         = 3
	reasonExamples     = 2
)

const (
	ReasonComplementaryRoles = "Complementary roles"
	ReasonFallback           = "Similar interests"
)

// complementaryRoles lists the role pairs that earn the role bonus.
// Roles are matched verbatim.
var complementaryRoles = [][2]string{
	{"Developer", "Designer"},
	{"Developer", "Product Manager"},
	{"Designer", "Product Manager"},
}

// Compatibility is the scorer's verdict for one ordered pair of profiles.
type Compatibility struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Bucket  Bucket   `json:"bucket"`
}

// Score rates how well candidate complements source. It is pure and
// deterministic; callers invoke it once per ordered pair.
func Score(source, candidate *Profile) Compatibility {
	var (
		reasons []string
		score   int
	)

	if helps := intersect(source.SkillsHave, candidate.SkillsNeed); len(helps) > 0 {
		reasons = append(reasons, "They need: "+examples(helps))
		score += complementWeight * len(helps)
	}

	if helps := intersect(candidate.SkillsHave, source.SkillsNeed); len(helps) > 0 {
		reasons = append(reasons, "You need: "+examples(helps))
		score += complementWeight * len(helps)
	}

	if shared := intersect(source.SkillsHave, candidate.SkillsHave); len(shared) > 0 {
		reasons = append(reasons, "Both have: "+examples(shared))
		score += sharedWeight * len(shared)
	}

	if rolesComplement(source.Role, candidate.Role) {
		reasons = append(reasons, ReasonComplementaryRoles)
		score += roleBonus
	}

	if len(reasons) == 0 {
		reasons = []string{ReasonFallback}
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return Compatibility{
		Score:   score,
		Reasons: reasons,
		Bucket:  BucketForScore(score),
	}
}

// BucketForScore maps an accumulated score onto its tier.
func BucketForScore(score int) Bucket {
	switch {
	case score >= strongThreshold:
		return BucketStrongComplement
	case score >= potentialThreshold:
		return BucketGoodPotential
	default:
		return BucketExplore
	}
}

// intersect returns the members of have that also appear in other,
// compared case-insensitively, in have's order and spelling.
func intersect(have, other []string) []string {
	if len(have) == 0 || len(other) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(other))
	for _, s := range other {
		set[skillKey(s)] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(have))
	for _, s := range have {
		key := skillKey(s)
		if _, ok := set[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func examples(skills []string) string {
	if len(skills) > reasonExamples {
		skills = skills[:reasonExamples]
	}
	return strings.Join(skills, ", ")
}

func rolesComplement(a, b string) bool {
	for _, pair := range complementaryRoles {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}
