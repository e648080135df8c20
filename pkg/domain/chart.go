package domain

// Chart type names accepted by chart commands. Renderers may support a
// subset; unsupported types degrade to ChartBar.
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
)

// ChartSpec is the payload handed to a chart renderer. Labels and Data are
// parallel; when lengths differ the shorter one wins. Colors cycle when
// fewer than the series length.
type ChartSpec struct {
	Type   string
	Title  string
	Labels []string
	Data   []float64
	Colors []string
}

// Points pairs labels with values, trimming to the shorter of the two.
func (s ChartSpec) Points() []ChartPoint {
	n := len(s.Labels)
	if len(s.Data) < n {
		n = len(s.Data)
	}
	points := make([]ChartPoint, n)
	for i := 0; i < n; i++ {
		points[i] = ChartPoint{Label: s.Labels[i], Value: s.Data[i]}
	}
	return points
}

// Max returns the largest data value, or 0 for an empty series. Negative
// values count; a series of all negatives reports its maximum.
func (s ChartSpec) Max() float64 {
	if len(s.Data) == 0 {
		return 0
	}
	max := s.Data[0]
	for _, v := range s.Data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Color returns the color for series index i, cycling through Colors.
// Returns "" when no colors are set.
func (s ChartSpec) Color(i int) string {
	if len(s.Colors) == 0 {
		return ""
	}
	return s.Colors[i%len(s.Colors)]
}

// ChartPoint is one labeled value of a chart series.
type ChartPoint struct {
	Label string
	Value float64
}
