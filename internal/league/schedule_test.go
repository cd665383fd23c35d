package league

import "testing"

func TestGenerateScheduleEveryPairOnce(t *testing.T) {
	for _, n := range []int{4, 5, 14, 15} {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		rounds := GenerateSchedule(ids, Apertura, 1)

		seen := map[[2]string]int{}
		for r, round := range rounds {
			busy := map[string]bool{}
			for _, m := range round {
				if m.Round != r+1 {
					t.Fatalf("n=%d: match in slice %d has round %d", n, r, m.Round)
				}
				if busy[m.HomeTeamID] || busy[m.AwayTeamID] {
					t.Fatalf("n=%d: team plays twice in round %d", n, m.Round)
				}
				busy[m.HomeTeamID], busy[m.AwayTeamID] = true, true
				key := [2]string{m.HomeTeamID, m.AwayTeamID}
				if key[0] > key[1] {
					key[0], key[1] = key[1], key[0]
				}
				seen[key]++
			}
		}
		if want := n * (n - 1) / 2; len(seen) != want {
			t.Fatalf("n=%d: %d distinct pairs, want %d", n, len(seen), want)
		}
		for pair, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: pair %v played %d times", n, pair, c)
			}
		}
	}
}

func TestGenerateFullSeasonSwapsVenues(t *testing.T) {
	season := GenerateFullSeason([]string{"a", "b", "c", "d"}, Clausura)
	if len(season) != 6 {
		t.Fatalf("got %d rounds, want 6", len(season))
	}
	first, second := season[0][0], season[3][0]
	if first.HomeTeamID != second.AwayTeamID || first.AwayTeamID != second.HomeTeamID {
		t.Fatalf("round 4 does not mirror round 1: %+v vs %+v", first, second)
	}
	if second.Round != 4 {
		t.Fatalf("second half starts at round %d", second.Round)
	}
}

func TestZoneFixtures(t *testing.T) {
	teams := append(fourTeams(), Team{ID: "b1", Zone: ZoneB}, Team{ID: "b2", Zone: ZoneB})
	matches := ZoneFixtures(teams, Apertura)
	if len(matches) != 6+1 {
		t.Fatalf("got %d fixtures, want 7", len(matches))
	}
	ids := map[string]bool{}
	for _, m := range matches {
		if ids[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		ids[m.ID] = true
		if m.IsPlayed || m.Tournament != Apertura {
			t.Fatalf("unexpected fixture %+v", m)
		}
	}
}
