package ratings

// Averages holds the mean present rating per item and per user.
// An item or user without any rating averages to 0.0.
type Averages struct {
	Items []float64
	Users []float64
}

// ComputeAverages derives item and user means from the present ratings of m.
// Values are summed in index order.
func ComputeAverages(m *Matrix) Averages {
	avgs := Averages{
		Items: make([]float64, m.items),
		Users: make([]float64, m.users),
	}

	for i := 0; i < m.items; i++ {
		avgs.Items[i] = mean(m.Row(i))
	}
	for j := 0; j < m.users; j++ {
		avgs.Users[j] = mean(m.Column(j))
	}

	return avgs
}

func mean(rs []Rating) float64 {
	var sum float64
	var n int
	for _, r := range rs {
		if v, ok := r.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}
