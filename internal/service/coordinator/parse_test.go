package coordinator

import "testing"

func TestCleanQuery(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "coffee shops", want: "coffee shops"},
		{raw: "  \"coffee   shops\"\n", want: "coffee shops"},
		{raw: "```text\nvegan brunch in Lisbon\n```", want: "vegan brunch in Lisbon"},
		{raw: "Query: 'late night tacos'", want: "late night tacos"},
		{raw: "\n\n", want: ""},
	}

	for _, tc := range cases {
		if got := cleanQuery(tc.raw); got != tc.want {
			t.Fatalf("cleanQuery(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseRankingKeepsLastDuplicate(t *testing.T) {
	parsed, err := parseRanking(`{"response":" fine ","relevancies":[{"id":"p1","relevancy":0.2},{"id":"p1","relevancy":0.8}]}`)
	if err != nil {
		t.Fatalf("parseRanking err: %v", err)
	}
	if parsed.narrative != "fine" {
		t.Fatalf("unexpected narrative %q", parsed.narrative)
	}
	if parsed.relevancies["p1"] != 0.8 {
		t.Fatalf("expected last duplicate to win, got %v", parsed.relevancies["p1"])
	}
}

func TestParseRankingAcceptsEmptyList(t *testing.T) {
	parsed, err := parseRanking(`{"relevancies":[]}`)
	if err != nil {
		t.Fatalf("parseRanking err: %v", err)
	}
	if len(parsed.relevancies) != 0 {
		t.Fatalf("expected no relevancies, got %d", len(parsed.relevancies))
	}
}
