package enrich

import "testing"

func TestIsDecisionMaker(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"VP of Marketing", true},
		{"Vice President, Sales", true},
		{"Co-Founder & CEO", true},
		{"Founder", true},
		{"CEO", true},
		{"Chief Technology Officer", true},
		{"Chief Happiness Officer", true},
		{"Managing Partner", true},
		{"Managing Director", true},
		{"Head of Growth", true},
		{"Owner", true},
		{"President", true},
		{"Principal", true},
		{"Director of Engineering", true},

		{"Marketing Assistant", false},
		{"Executive Assistant", false}, // exclude beats include
		{"Senior Associate", false},
		{"Junior Developer", false},
		{"Sales Representative", false},
		{"Business Analyst", false},
		{"Account Coordinator", false},
		{"Support Specialist", false},
		{"Software Engineer", false}, // no include keyword
		{"Ava Labs", false},          // company-name-shaped, no keyword
		{"Acme", false},
		{"Chief", false}, // single keyword-bearing word, still too thin
		{"", false},
		{"VPN Administrator", false}, // "vp" must not match inside "vpn"
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := IsDecisionMaker(tt.title); got != tt.want {
				t.Errorf("IsDecisionMaker(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}
