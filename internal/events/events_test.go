package events

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{ThreatEscalated{Level: 3}, "Threat level rose to 3"},
		{FirewallDestroyed{}, "Firewall destroyed"},
		{LoreUnlocked{ID: "lore.malus"}, "Lore unlocked: lore.malus"},
		{BatchCancelled{Sent: 2, Total: 12, Reason: "attack"}, "Upload cancelled (attack): 2/12 sent"},
	}
	for _, tt := range tests {
		if got := Describe(tt.ev); got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
