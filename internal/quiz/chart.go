package quiz

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// ChartData 结果页雷达图数据，数值范围 0-100
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// RadarSpec is handed to the charting capability.
type RadarSpec struct {
	Labels          []string  `json:"labels"`
	DatasetLabel    string    `json:"datasetLabel"`
	Values          []float64 `json:"values"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	PointColor      string    `json:"pointColor"`
	Min             float64   `json:"min"`
	Max             float64   `json:"max"`
	StepSize        float64   `json:"stepSize"`
}

type ChartRenderer interface {
	Radar(spec RadarSpec)
}

const radarDatasetLabel = "知识点掌握度"

// ParseChartData tolerates empty or malformed input by returning ok=false.
func ParseChartData(raw string) (ChartData, bool) {
	if strings.TrimSpace(raw) == "" {
		return ChartData{}, false
	}
	var data ChartData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ChartData{}, false
	}
	if len(data.Labels) == 0 || len(data.Labels) != len(data.Values) {
		return ChartData{}, false
	}
	return data, true
}

// RenderRadar draws the chart, or does nothing when any input is missing.
func RenderRadar(renderer ChartRenderer, raw string) bool {
	if renderer == nil {
		return false
	}
	data, ok := ParseChartData(raw)
	if !ok {
		return false
	}
	renderer.Radar(NewRadarSpec(data))
	return true
}

func NewRadarSpec(data ChartData) RadarSpec {
	return RadarSpec{
		Labels:          data.Labels,
		DatasetLabel:    radarDatasetLabel,
		Values:          data.Values,
		BackgroundColor: "rgba(74, 144, 226, 0.2)",
		BorderColor:     "rgba(74, 144, 226, 1)",
		PointColor:      "rgba(74, 144, 226, 1)",
		Min:             0,
		Max:             100,
		StepSize:        20,
	}
}

// KnowledgeStat 单个知识点的答题统计
type KnowledgeStat struct {
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

// Accuracy is the correct percentage rounded to one decimal.
func (k KnowledgeStat) Accuracy() float64 {
	if k.Total <= 0 {
		return 0
	}
	return math.Round(float64(k.Correct)*1000/float64(k.Total)) / 10
}

// BuildChartData orders knowledge points by name; duplicates are merged.
func BuildChartData(stats []KnowledgeStat) ChartData {
	merged := make(map[string]KnowledgeStat, len(stats))
	for _, s := range stats {
		m := merged[s.Name]
		m.Name = s.Name
		m.Total += s.Total
		m.Correct += s.Correct
		merged[s.Name] = m
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	data := ChartData{Labels: make([]string, 0, len(names)), Values: make([]float64, 0, len(names))}
	for _, name := range names {
		data.Labels = append(data.Labels, name)
		data.Values = append(data.Values, merged[name].Accuracy())
	}
	return data
}
