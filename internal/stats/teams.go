package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// TeamKey is the canonical identifier for a squad. The club fields eight
// Saturday sides plus a veterans side; "club" is the whole-club sentinel used
// when a question names no team at all.
type TeamKey string

const (
	TeamClub TeamKey = "club"
	TeamVets TeamKey = "Vets"
)

var spelledOrdinals = map[string]int{
	"firsts":   1,
	"seconds":  2,
	"thirds":   3,
	"fourths":  4,
	"fifths":   5,
	"sixths":   6,
	"sevenths": 7,
	"eighths":  8,
}

// SquadKeys lists every canonical squad key in fixture order, Vets last.
func SquadKeys() []TeamKey {
	keys := make([]TeamKey, 0, 9)
	for n := 1; n <= 8; n++ {
		keys = append(keys, TeamKey(fmt.Sprintf("%ds", n)))
	}
	return append(keys, TeamVets)
}

// NormalizeTeam maps a surface form to its canonical key. It is total over
// the accepted forms: digit form ("3s"), ordinal form ("3rd", "3rd XI",
// "3rd team"), spelled ordinals ("thirds"), "vets"/"veterans", and
// "club"/"whole club". Anything else, including numerals outside 1-8,
// returns ok=false.
func NormalizeTeam(surface string) (TeamKey, bool) {
	s := strings.ToLower(strings.TrimSpace(surface))
	if s == "" {
		return "", false
	}

	// canonical keys normalize to themselves
	if s == "vets" || s == "veterans" {
		return TeamVets, true
	}
	if s == "club" || s == "whole club" || s == "the club" {
		return TeamClub, true
	}

	if n, ok := spelledOrdinals[s]; ok {
		return TeamKey(fmt.Sprintf("%ds", n)), true
	}

	s = strings.TrimSuffix(s, " xi")
	s = strings.TrimSuffix(s, " team")

	digits := s
	for _, suffix := range []string{"st", "nd", "rd", "th", "s"} {
		if strings.HasSuffix(digits, suffix) {
			digits = strings.TrimSuffix(digits, suffix)
			break
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 8 {
		return "", false
	}

	return TeamKey(fmt.Sprintf("%ds", n)), true
}

// Display returns the form stored on the fixture's team field: "3s" -> "3rd XI".
func (t TeamKey) Display() string {
	switch t {
	case TeamVets:
		return "Vets"
	case TeamClub:
		return "the club"
	}

	n, err := strconv.Atoi(strings.TrimSuffix(string(t), "s"))
	if err != nil {
		return string(t)
	}
	return fmt.Sprintf("%d%s XI", n, ordinalSuffix(n))
}

func ordinalSuffix(n int) string {
	switch n {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
