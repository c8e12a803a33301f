package result

// Stats summarizes the score distribution of a result set.
type Stats struct {
	Count      int
	MinScore   float64
	MaxScore   float64
	AvgScore   float64
	ScoreRange float64
}

// Summarize computes score statistics over a ranked result set.
// An empty set yields the zero Stats.
func Summarize(results []Result) Stats {
	if len(results) == 0 {
		return Stats{}
	}

	min := results[0].FinalScore()
	max := min
	var sum float64
	for i := range results {
		s := results[i].FinalScore()
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
		sum += s
	}

	return Stats{
		Count:      len(results),
		MinScore:   min,
		MaxScore:   max,
		AvgScore:   sum / float64(len(results)),
		ScoreRange: max - min,
	}
}
