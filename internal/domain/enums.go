package domain

import "strconv"

// Quality is the user's self-assessed recall grade on the SM-2 scale 0..5.
// Grades below 3 count as a failed recall.
type Quality int

const (
	QualityBlackout  Quality = 0
	QualityWrong     Quality = 1
	QualityHard      Quality = 2
	QualityDifficult Quality = 3
	QualityGood      Quality = 4
	QualityPerfect   Quality = 5
)

func (q Quality) String() string { return strconv.Itoa(int(q)) }

func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// IsSuccess reports whether the grade counts as a correct recall.
func (q Quality) IsSuccess() bool {
	return q >= QualityDifficult
}

// Normalized maps the grade onto [0,1].
func (q Quality) Normalized() float64 {
	return float64(q) / float64(QualityPerfect)
}
