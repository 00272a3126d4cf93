// Package analysis holds the skill-gap scoring computation. The score
// is a staffing heuristic, not a calibrated model: a skill held by many
// members at high proficiency scores low even when its importance is
// high.
package analysis

import "sort"

// RequiredSkill is a skill a project calls for.
type RequiredSkill struct {
	SkillID         uint
	SkillName       string
	ImportanceLevel int // 1-5
}

// MemberSkill is one skill record held by a project member.
type MemberSkill struct {
	SkillID          uint
	ProficiencyLevel int // 1-5
}

// SkillGap is the scored result for one required skill.
type SkillGap struct {
	SkillID         uint    `json:"skill_id"`
	SkillName       string  `json:"skill_name"`
	ImportanceLevel int     `json:"importance_level"`
	Coverage        int     `json:"coverage"`
	AvgProficiency  float64 `json:"avg_proficiency"`
	GapScore        float64 `json:"gap_score"`
}

// Analyze scores each required skill against the skills held by the
// project's members. For each requirement:
//
//	coverage  = number of member records holding the skill
//	avg_prof  = mean proficiency over those records (0 without matches)
//	gap_score = importance - avg_prof * coverage / member_count
//
// The subtracted term is 0 when the project has no members. Results are
// ordered by gap score, highest unmet need first; negative scores mean
// over-coverage.
func Analyze(required []RequiredSkill, memberSkills []MemberSkill, memberCount int) []SkillGap {
	bySkill := make(map[uint][]int, len(required))
	for _, ms := range memberSkills {
		bySkill[ms.SkillID] = append(bySkill[ms.SkillID], ms.ProficiencyLevel)
	}

	gaps := make([]SkillGap, 0, len(required))
	for _, req := range required {
		levels := bySkill[req.SkillID]
		coverage := len(levels)

		var avgProficiency float64
		if coverage > 0 {
			sum := 0
			for _, level := range levels {
				sum += level
			}
			avgProficiency = float64(sum) / float64(coverage)
		}

		gapScore := float64(req.ImportanceLevel)
		if memberCount > 0 {
			gapScore -= avgProficiency * float64(coverage) / float64(memberCount)
		}

		gaps = append(gaps, SkillGap{
			SkillID:         req.SkillID,
			SkillName:       req.SkillName,
			ImportanceLevel: req.ImportanceLevel,
			Coverage:        coverage,
			AvgProficiency:  avgProficiency,
			GapScore:        gapScore,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].GapScore > gaps[j].GapScore
	})

	return gaps
}
