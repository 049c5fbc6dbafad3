package tower

import "sort"

// TransferTokens moves tokens between residents. Balances never go
// negative; the transfer is all-or-nothing.
func TransferTokens(from, to *Resident, amount int) bool {
	if amount <= 0 || from.Tokens < amount {
		return false
	}
	from.Tokens -= amount
	to.Tokens += amount
	return true
}

type LeaderboardEntry struct {
	ResidentID string `json:"resident_id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
}

type leaderboardKey func(r Resident) int

var leaderboardKeys = map[string]leaderboardKey{
	"clout":  func(r Resident) int { return r.Clout },
	"tokens": func(r Resident) int { return r.Tokens },
	"gossip": func(r Resident) int { return len(r.HeardGossip) },
	"duels":  func(r Resident) int { return r.DuelRecord.Wins },
	"trades": func(r Resident) int { return r.TradeCount },
}

// LeaderboardCategories lists the supported ranking keys.
func LeaderboardCategories() []string {
	keys := make([]string, 0, len(leaderboardKeys))
	for k := range leaderboardKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Leaderboard ranks residents by the named key, ties broken by name so
// identical snapshots render identically.
func Leaderboard(residents []Resident, key string, limit int) []LeaderboardEntry {
	score, ok := leaderboardKeys[key]
	if !ok {
		return nil
	}
	entries := make([]LeaderboardEntry, 0, len(residents))
	for _, r := range residents {
		entries = append(entries, LeaderboardEntry{ResidentID: r.ID, Name: r.Name, Score: score(r)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
