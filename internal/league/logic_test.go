package league

import (
	"reflect"
	"testing"
)

func played(id string, round int, home, away string, hg, ag int) Match {
	return Match{ID: id, Round: round, HomeTeamID: home, AwayTeamID: away, Tournament: Apertura}.Play(hg, ag)
}

func fourTeams() []Team {
	return []Team{
		{ID: "w", Name: "W", Zone: ZoneA},
		{ID: "x", Name: "X", Zone: ZoneA},
		{ID: "y", Name: "Y", Zone: ZoneA},
		{ID: "z", Name: "Z", Zone: ZoneA},
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		hg, ag     int
		home, away Tally
	}{
		{"home win", 2, 0, Tally{3, 2, 2}, Tally{0, -2, 0}},
		{"away win", 1, 2, Tally{0, -1, 1}, Tally{3, 1, 2}},
		{"draw", 1, 1, Tally{1, 0, 1}, Tally{1, 0, 1}},
		{"goalless", 0, 0, Tally{1, 0, 0}, Tally{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var home, away Tally
			Score(&home, &away, tt.hg, tt.ag)
			if home != tt.home || away != tt.away {
				t.Fatalf("got %+v / %+v, want %+v / %+v", home, away, tt.home, tt.away)
			}
		})
	}
}

func TestSortByTallyTieBreak(t *testing.T) {
	type row struct {
		id string
		t  Tally
	}
	rows := []row{
		{"fewer-goals", Tally{Points: 10, GoalDiff: 3, GoalsFor: 5}},
		{"tie-a", Tally{Points: 7, GoalDiff: 0, GoalsFor: 4}},
		{"more-goals", Tally{Points: 10, GoalDiff: 3, GoalsFor: 8}},
		{"tie-b", Tally{Points: 7, GoalDiff: 0, GoalsFor: 4}},
		{"better-gd", Tally{Points: 10, GoalDiff: 4, GoalsFor: 1}},
	}
	for i := 0; i < 20; i++ {
		got := append([]row(nil), rows...)
		SortByTally(got, func(r row) Tally { return r.t })
		var ids []string
		for _, r := range got {
			ids = append(ids, r.id)
		}
		want := []string{"better-gd", "more-goals", "fewer-goals", "tie-a", "tie-b"}
		if !reflect.DeepEqual(ids, want) {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestUniformSamplerRanges(t *testing.T) {
	s := NewUniformSampler(42)
	var homeSeen [HomeGoalOutcomes]int
	var awaySeen [AwayGoalOutcomes]int
	for i := 0; i < 10000; i++ {
		h, a := s.Sample()
		if h < 0 || h >= HomeGoalOutcomes || a < 0 || a >= AwayGoalOutcomes {
			t.Fatalf("sample out of range: %d-%d", h, a)
		}
		homeSeen[h]++
		awaySeen[a]++
	}
	for g, n := range homeSeen {
		if n < 2000 || n > 3000 {
			t.Errorf("home goals %d drawn %d times, expected about 2500", g, n)
		}
	}
	for g, n := range awaySeen {
		if n < 2900 || n > 3800 {
			t.Errorf("away goals %d drawn %d times, expected about 3333", g, n)
		}
	}
}

func TestMatchValidate(t *testing.T) {
	one := 1
	neg := -1
	tests := []struct {
		name  string
		match Match
		ok    bool
	}{
		{"unplayed", Match{}, true},
		{"played", Match{}.Play(2, 1), true},
		{"played without score", Match{IsPlayed: true, HomeScore: &one}, false},
		{"unplayed with score", Match{HomeScore: &one, AwayScore: &one}, false},
		{"negative", Match{IsPlayed: true, HomeScore: &neg, AwayScore: &one}, false},
	}
	for _, tt := range tests {
		if err := tt.match.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
	}
}

func TestCloneMatchesDoesNotShareScores(t *testing.T) {
	orig := []Match{Match{ID: "m"}.Play(1, 0)}
	cp := CloneMatches(orig)
	*cp[0].HomeScore = 5
	if *orig[0].HomeScore != 1 {
		t.Fatal("clone shares score memory with original")
	}
}

func TestCalculateStandings(t *testing.T) {
	teams := append(fourTeams(), Team{ID: "b1", Zone: ZoneB}, Team{ID: "b2", Zone: ZoneB})
	matches := []Match{
		played("1", 1, "x", "w", 3, 0),
		played("2", 1, "y", "z", 1, 1),
		played("3", 2, "x", "y", 0, 2),
		played("4", 2, "w", "z", 2, 2),
		played("5", 1, "b1", "b2", 0, 1),
		played("6", 1, "x", "ghost", 9, 0),
		{ID: "7", Round: 3, HomeTeamID: "x", AwayTeamID: "z", Tournament: Apertura},
		played("8", 1, "w", "x", 5, 0).withTournament(Clausura),
	}

	s := CalculateStandings(teams, matches, Apertura)

	var order []string
	for _, e := range s.A {
		order = append(order, e.Team.ID)
	}
	// y: 4 pts GD+2, x: 3 pts GD+1, z: 2 pts, w: 1 pt.
	if want := []string{"y", "x", "z", "w"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("zone A order = %v, want %v", order, want)
	}

	x := s.A[1]
	if x.Stats != (Stats{Played: 2, Won: 1, Lost: 1, GF: 3, GA: 2, Points: 3, GoalDiff: 1}) {
		t.Errorf("x stats = %+v", x.Stats)
	}
	if x.Home.Played != 2 || x.Away.Played != 0 {
		t.Errorf("x home/away split = %+v / %+v", x.Home, x.Away)
	}
	if !reflect.DeepEqual(x.Form, []string{"W", "L"}) {
		t.Errorf("x form = %v", x.Form)
	}
	if x.Streaks != (Streaks{Win: 0, Unbeaten: 0, Loss: 1}) {
		t.Errorf("x streaks = %+v", x.Streaks)
	}
	if !reflect.DeepEqual(x.PositionHistory, []int{1, 2}) {
		t.Errorf("x position history = %v", x.PositionHistory)
	}

	if len(s.B) != 2 || s.B[0].Team.ID != "b2" {
		t.Errorf("zone B = %+v", s.B)
	}
	if len(s.All) != len(teams) {
		t.Errorf("all has %d entries, want %d", len(s.All), len(teams))
	}
}

func TestCalculateStandingsInterzonal(t *testing.T) {
	teams := []Team{
		{ID: "a1", Zone: ZoneA}, {ID: "a2", Zone: ZoneA},
		{ID: "b1", Zone: ZoneB}, {ID: "b2", Zone: ZoneB},
	}
	cross := played("1", 1, "a2", "b1", 2, 0)
	cross.Type = Interzonal
	matches := []Match{cross, played("2", 1, "b2", "a1", 1, 1)}

	s := CalculateStandings(teams, matches, Apertura)
	if len(s.A) != 2 || len(s.B) != 2 {
		t.Fatalf("zone sizes A=%d B=%d", len(s.A), len(s.B))
	}
	if s.A[0].Team.ID != "a2" || s.A[0].Stats.Points != 3 || s.A[1].Stats.Points != 1 {
		t.Errorf("zone A = %+v", s.A)
	}
	// b1 lost its interzonal game, b2 drew its own.
	if s.B[0].Team.ID != "b2" || s.B[1].Team.ID != "b1" || s.B[1].Stats.GoalDiff != -2 {
		t.Errorf("zone B = %+v", s.B)
	}
}

func (m Match) withTournament(t Tournament) Match {
	m.Tournament = t
	return m
}

func TestFormKeepsLastFive(t *testing.T) {
	teams := []Team{{ID: "a", Zone: ZoneA}, {ID: "b", Zone: ZoneA}}
	var matches []Match
	for r := 1; r <= 7; r++ {
		matches = append(matches, played("m", r, "a", "b", r%2, 0))
	}
	s := CalculateStandings(teams, matches, Apertura)
	a := s.All[0]
	if want := []string{"W", "D", "W", "D", "W"}; !reflect.DeepEqual(a.Form, want) {
		t.Fatalf("form = %v, want %v", a.Form, want)
	}
	if len(a.PositionHistory) != 7 {
		t.Fatalf("position history has %d rounds, want 7", len(a.PositionHistory))
	}
}

func TestAnnualTableAndAverages(t *testing.T) {
	pts := func(v int) *int { return &v }
	teams := []Team{
		{ID: "a", Zone: ZoneA, Averages: Averages{Pts2024: pts(60), PJ2024: 30, Pts2025: pts(50), PJ2025: 30}},
		{ID: "b", Zone: ZoneB, Averages: Averages{PJ2024: 0, Pts2025: pts(20), PJ2025: 30}},
		{ID: "c", Zone: ZoneA},
	}
	matches := []Match{
		played("1", 1, "a", "b", 1, 0),
		played("2", 1, "c", "b", 0, 1).withTournament(Clausura),
	}

	annual := AnnualTable(teams, matches)
	if annual[0].Team.ID != "a" || annual[0].Stats.Points != 3 || annual[0].Position != 1 {
		t.Errorf("annual leader = %+v", annual[0])
	}
	if annual[1].Team.ID != "b" || annual[1].Stats.Played != 2 {
		t.Errorf("annual second = %+v", annual[1])
	}
	if annual[0].Berth != BerthLibertadores {
		t.Errorf("leader berth = %q", annual[0].Berth)
	}

	avg := RelegationAverages(teams, matches)
	if avg[0].Team.ID != "a" || avg[0].TotalPts != 113 || avg[0].TotalPJ != 61 {
		t.Errorf("averages leader = %+v", avg[0])
	}
	last := avg[len(avg)-1]
	if last.Team.ID != "c" || !last.Relegated || last.Average != 0 {
		t.Errorf("averages last = %+v", last)
	}
	if avg[1].Relegated {
		t.Error("only the last team is relegated")
	}
}
