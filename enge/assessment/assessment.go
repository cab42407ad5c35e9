// Package assessment tracks pre/post critical-thinking assessment results for
// a teaching session and summarises cohort improvement.
package assessment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Assessment dimensions.
const (
	DimensionProblemAnalysis       = "Problem Analysis"
	DimensionEvaluationOfEvidence  = "Evaluation of Evidence"
	DimensionInferenceAndReasoning = "Inference and Reasoning"
	DimensionExperimentalDesign    = "Experimental Design"
	DimensionFutureImplications    = "Future Implications"
)

// Dimensions lists the assessment dimensions in display order.
func Dimensions() []string {
	return []string{
		DimensionProblemAnalysis,
		DimensionEvaluationOfEvidence,
		DimensionInferenceAndReasoning,
		DimensionExperimentalDesign,
		DimensionFutureImplications,
	}
}

// Question is one item of an assessment.
type Question struct {
	ID        int    `json:"id"`
	Text      string `json:"question"`
	Dimension string `json:"dimension"`
	Points    int    `json:"points"`
}

// DefaultQuestions returns the standard question bank, one per dimension.
func DefaultQuestions() []Question {
	return []Question{
		{1, "A chemical plant is experiencing irregular pressure drops in a heat exchanger. What are the possible causes of this issue and how would you systematically investigate them?", DimensionProblemAnalysis, 10},
		{2, "Compare and contrast the environmental impacts of using fossil fuels versus biofuels in industrial processes. What assumptions are you making in your comparison?", DimensionEvaluationOfEvidence, 10},
		{3, "A startup claims their new catalyst improves reaction efficiency by 40%. How would you verify this claim and what additional information would you need?", DimensionInferenceAndReasoning, 10},
		{4, "Design an experiment to determine the optimal operating temperature for a batch reactor. What control variables would you include and why?", DimensionExperimentalDesign, 10},
		{5, "How might advances in AI impact the role of chemical engineers in process design over the next decade? Support your answer with evidence.", DimensionFutureImplications, 10},
	}
}

// Result is one student's pre/post outcome.
type Result struct {
	StudentID          string    `json:"student_id"`
	Name               string    `json:"name"`
	PreScore           float64   `json:"pre_score"`
	PostScore          float64   `json:"post_score"`
	Improvement        float64   `json:"improvement"`
	StrongestDimension string    `json:"strongest_dimension"`
	WeakestDimension   string    `json:"weakest_dimension"`
	CompletedOn        Date      `json:"date_completed"`
}

// DateLayout is the calendar-date form results are stored in.
const DateLayout = "2006-01-02"

// Date is a completion date. It decodes either DateLayout or RFC3339 and
// encodes as DateLayout; the zero value encodes as an empty string.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: want %s or RFC3339", s, DateLayout)
}

var ErrInvalidResult = errors.New("invalid assessment result")

// Tracker keeps the latest result per student. It is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	results map[string]Result
}

func NewTracker() *Tracker {
	return &Tracker{results: make(map[string]Result)}
}

// Record validates r, computes its improvement and stores it, replacing any
// earlier result for the same student.
func (t *Tracker) Record(r Result) (Result, error) {
	r.StudentID = strings.TrimSpace(r.StudentID)
	if r.StudentID == "" {
		return Result{}, fmt.Errorf("%w: student id is required", ErrInvalidResult)
	}
	for _, score := range []float64{r.PreScore, r.PostScore} {
		if math.IsNaN(score) || score < 0 || score > 100 {
			return Result{}, fmt.Errorf("%w: score %v outside [0, 100]", ErrInvalidResult, score)
		}
	}
	r.Improvement = r.PostScore - r.PreScore

	t.mu.Lock()
	t.results[r.StudentID] = r
	t.mu.Unlock()
	return r, nil
}

// Get returns the result for studentID.
func (t *Tracker) Get(studentID string) (Result, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.results[studentID]
	return r, ok
}

// Results returns every result ordered by student id.
func (t *Tracker) Results() []Result {
	t.mu.RLock()
	out := make([]Result, 0, len(t.results))
	for _, r := range t.results {
		out = append(out, r)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out
}

// Summary aggregates a cohort.
type Summary struct {
	Count              int            `json:"count"`
	MeanPre            float64        `json:"mean_pre"`
	MeanPost           float64        `json:"mean_post"`
	MeanImprovement    float64        `json:"mean_improvement"`
	StdDevImprovement  float64        `json:"stddev_improvement"`
	PercentImprovement float64        `json:"percent_improvement"` // relative change of the means, one decimal
	StrongestCounts    map[string]int `json:"strongest_counts"`
	WeakestCounts      map[string]int `json:"weakest_counts"`
}

// Summary computes cohort statistics. An empty tracker yields a zero Summary
// with empty maps.
func (t *Tracker) Summary() Summary {
	results := t.Results()
	s := Summary{
		Count:           len(results),
		StrongestCounts: map[string]int{},
		WeakestCounts:   map[string]int{},
	}
	if len(results) == 0 {
		return s
	}

	pre := make([]float64, len(results))
	post := make([]float64, len(results))
	improvement := make([]float64, len(results))
	for i, r := range results {
		pre[i], post[i], improvement[i] = r.PreScore, r.PostScore, r.Improvement
		if r.StrongestDimension != "" {
			s.StrongestCounts[r.StrongestDimension]++
		}
		if r.WeakestDimension != "" {
			s.WeakestCounts[r.WeakestDimension]++
		}
	}

	s.MeanPre = stat.Mean(pre, nil)
	s.MeanPost = stat.Mean(post, nil)
	if len(improvement) > 1 {
		s.MeanImprovement, s.StdDevImprovement = stat.MeanStdDev(improvement, nil)
	} else {
		s.MeanImprovement = improvement[0]
	}
	s.PercentImprovement = PercentChange(pre, post)
	return s
}

// PercentChange is the relative change between the means of before and
// after, in percent rounded to one decimal. It is zero when before is empty
// or averages to zero.
func PercentChange(before, after []float64) float64 {
	if len(before) == 0 || len(after) == 0 {
		return 0
	}
	meanBefore := stat.Mean(before, nil)
	if meanBefore == 0 {
		return 0
	}
	pct := (stat.Mean(after, nil) - meanBefore) / meanBefore * 100
	return math.Round(pct*10) / 10
}
