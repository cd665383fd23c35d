package league

import "fmt"

// GenerateSchedule returns a single round-robin for the provided team ids
// using the circle method. Rounds are numbered from firstRound.
func GenerateSchedule(teamIDs []string, tournament Tournament, firstRound int) [][]Match {
	teams := append([]string(nil), teamIDs...)
	// If odd number of teams, add an empty placeholder (bye)
	if len(teams)%2 != 0 {
		teams = append(teams, "")
	}
	n := len(teams)
	if n < 2 {
		return nil
	}

	rounds := make([][]Match, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Match, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := teams[j], teams[n-1-j]
			if home == "" || away == "" {
				continue
			}
			// Alternate the fixed team's venue so it is not always at home.
			if j == 0 && i%2 == 1 {
				home, away = away, home
			}
			round = append(round, Match{
				HomeTeamID: home,
				AwayTeamID: away,
				Round:      firstRound + i,
				Tournament: tournament,
				Type:       Regular,
			})
		}
		rounds[i] = round

		// Rotate everyone except the first
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}
	return rounds
}

// GenerateFullSeason returns a double round-robin: the second half repeats
// the first with home and away swapped.
func GenerateFullSeason(teamIDs []string, tournament Tournament) [][]Match {
	firstHalf := GenerateSchedule(teamIDs, tournament, 1)
	secondHalf := make([][]Match, len(firstHalf))
	for i, rnd := range firstHalf {
		swapped := make([]Match, len(rnd))
		for j, m := range rnd {
			m.HomeTeamID, m.AwayTeamID = m.AwayTeamID, m.HomeTeamID
			m.Round = len(firstHalf) + i + 1
			swapped[j] = m
		}
		secondHalf[i] = swapped
	}
	return append(firstHalf, secondHalf...)
}

// ZoneFixtures schedules a single round-robin inside each zone for one
// tournament and assigns stable match ids. Zones play the same rounds in parallel.
func ZoneFixtures(teams []Team, tournament Tournament) []Match {
	var matches []Match
	for _, z := range Zones {
		var ids []string
		for _, t := range teams {
			if t.Zone == z {
				ids = append(ids, t.ID)
			}
		}
		for _, round := range GenerateSchedule(ids, tournament, 1) {
			for i, m := range round {
				m.ID = fmt.Sprintf("%s-%s-r%02d-m%d", tournament, z, m.Round, i+1)
				matches = append(matches, m)
			}
		}
	}
	return matches
}
