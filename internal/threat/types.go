// Package threat implements risk calculation, attack generation, the attack
// and early-warning lifecycle and layered damage mitigation.
package threat

// AttackType is the static definition of an attack variant.
type AttackType struct {
	ID       string
	Name     string
	Weight   float64
	Duration int // Ticks
	MinRisk  int

	// Damage per tick at severity 1.
	CreditDrain float64
	Bandwidth   float64 // Fractional bandwidth debuff
	Processing  float64 // Fractional processing debuff
}

var attackTypes = []AttackType{
	{ID: "ddos", Name: "DDoS Flood", Weight: 30, Duration: 8, MinRisk: 1, CreditDrain: 2, Bandwidth: 0.4},
	{ID: "phishing", Name: "Phishing Campaign", Weight: 25, Duration: 5, MinRisk: 1, CreditDrain: 4},
	{ID: "malware", Name: "Malware Infection", Weight: 20, Duration: 10, MinRisk: 2, CreditDrain: 3, Processing: 0.3},
	{ID: "cryptojack", Name: "Cryptojacking", Weight: 12, Duration: 15, MinRisk: 3, CreditDrain: 1, Bandwidth: 0.1, Processing: 0.5},
	{ID: "ransomware", Name: "Ransomware", Weight: 8, Duration: 12, MinRisk: 4, CreditDrain: 10, Processing: 0.6},
	{ID: "apt", Name: "Advanced Persistent Threat", Weight: 4, Duration: 25, MinRisk: 6, CreditDrain: 6, Bandwidth: 0.2, Processing: 0.2},
	{ID: "zeroday", Name: "Zero-Day Exploit", Weight: 1, Duration: 6, MinRisk: 8, CreditDrain: 25, Bandwidth: 0.3, Processing: 0.3},
}

// AttackTypes returns all attack variants.
func AttackTypes() []AttackType {
	out := make([]AttackType, len(attackTypes))
	copy(out, attackTypes)
	return out
}

// GetAttackType returns the attack type for id.
func GetAttackType(id string) (AttackType, bool) {
	for _, t := range attackTypes {
		if t.ID == id {
			return t, true
		}
	}
	return AttackType{}, false
}

// Eligible returns the types whose minimum risk is satisfied by risk.
func Eligible(risk int) []AttackType {
	var out []AttackType
	for _, t := range attackTypes {
		if t.MinRisk <= risk {
			out = append(out, t)
		}
	}
	return out
}
