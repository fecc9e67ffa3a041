package style

import (
	"fmt"
	"strings"
)

const (
	Male   = "male"
	Female = "female"
)

// AgeGroups lists the selectable age brackets in display order
var AgeGroups = []string{"teens", "20s", "30s", "40s", "50plus"}

// ageAliases maps the Korean labels stored by older installs
var ageAliases = map[string]string{
	"10대":   "teens",
	"20대":   "20s",
	"30대":   "30s",
	"40대":   "40s",
	"50대이상": "50plus",
}

// Profile holds the user's self-description. Every field is optional.
type Profile struct {
	Gender         string `yaml:"gender"`
	AgeGroup       string `yaml:"age"`
	OpponentGender string `yaml:"-"`
}

// NormalizeAge maps aliases onto the canonical bracket names
func NormalizeAge(age string) string {
	age = strings.TrimSpace(age)
	if canon, ok := ageAliases[age]; ok {
		return canon
	}
	return strings.ToLower(age)
}

// AgeLabel is the human-readable bracket name
func AgeLabel(age string) string {
	switch NormalizeAge(age) {
	case "teens":
		return "Teens"
	case "20s":
		return "20s"
	case "30s":
		return "30s"
	case "40s":
		return "40s"
	case "50plus":
		return "50s+"
	case "":
		return "Age group not set"
	default:
		return age
	}
}

// GenderLabel is the human-readable gender name
func GenderLabel(g string) string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return "Gender not set"
	}
}

// AgeStyle describes the tone that fits the age bracket
func (p Profile) AgeStyle() string {
	switch NormalizeAge(p.AgeGroup) {
	case "teens":
		return "lively and trendy for teens"
	case "20s":
		return "active and modern for twenties"
	case "30s":
		return "stable and sophisticated for thirties"
	case "40s":
		return "mature and classy for forties"
	case "50plus":
		return "calm and wise for 50s and above"
	default:
		return "natural and appropriate"
	}
}

// GenderStyle is empty when the gender is unset
func (p Profile) GenderStyle() string {
	switch p.Gender {
	case Male:
		return "masculine and"
	case Female:
		return "feminine and"
	default:
		return ""
	}
}

// OpponentInfo is only meaningful in relationship mode
func (p Profile) OpponentInfo() string {
	switch p.OpponentGender {
	case Male, Female:
		return fmt.Sprintf("The opponent is %s.", p.OpponentGender)
	default:
		return ""
	}
}

// PairGuide gives phrasing guidance for mixed-gender relationship chats
func (p Profile) PairGuide() string {
	switch {
	case p.Gender == Male && p.OpponentGender == Female:
		return "Use natural expressions that men use for women."
	case p.Gender == Female && p.OpponentGender == Male:
		return "Use natural expressions that women use for men."
	default:
		return ""
	}
}

// Summary is the one-line profile used in prompts; empty when both fields are unset
func (p Profile) Summary() string {
	if p.Gender == "" && NormalizeAge(p.AgeGroup) == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s", GenderLabel(p.Gender), AgeLabel(p.AgeGroup))
}

// Complete reports whether relationship mode has what it needs
func (p Profile) Complete() bool {
	return p.Gender != "" && p.OpponentGender != ""
}
