package standing

import "sort"

// Rank orders totals by points desc, player id asc, and assigns dense ranks.
func Rank(totals []SeasonTotal) []SeasonTotal {
	out := append([]SeasonTotal(nil), totals...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	rank := 0
	for i := range out {
		if i == 0 || out[i].Points != out[i-1].Points {
			rank++
		}
		out[i].Rank = rank
	}
	return out
}
