package domain

import "time"

// TrainingPassingScore is the minimum quiz score that sets PassedAt.
const TrainingPassingScore = 80

// Training records the compliance training attestation, unique per user.
// A failing score is not an error; PassedAt simply stays unset.
type Training struct {
	ID          string
	UserID      string
	Score       int
	Attestation string
	AttestedAt  *time.Time
	PassedAt    *time.Time
	IPAddr      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCompleted reports whether training was both passed and attested.
func (t *Training) IsCompleted() bool {
	return t.PassedAt != nil && t.AttestedAt != nil
}

// IsPassingScore reports whether the recorded score meets the bar.
func (t *Training) IsPassingScore() bool {
	return t.Score >= TrainingPassingScore
}
