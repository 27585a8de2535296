package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	ProductID  string    `json:"product_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingStats summarizes the reviews of one product. Distribution is
// keyed by star count, 1 to 5, and always holds all five keys.
type RatingStats struct {
	Average      float64     `json:"average"`
	Total        int         `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

// NewRatingStats ignores ratings outside 1..5.
func NewRatingStats(reviews []Review) RatingStats {
	s := RatingStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	var sum int
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		s.Distribution[r.Rating]++
		s.Total++
		sum += r.Rating
	}
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s
}

type ContactSubject string

const (
	SubjectQuestion    ContactSubject = "question"
	SubjectOrder       ContactSubject = "commande"
	SubjectProduct     ContactSubject = "produit"
	SubjectReturn      ContactSubject = "retour"
	SubjectPartnership ContactSubject = "partenariat"
	SubjectOther       ContactSubject = "autre"
)

type ContactMessage struct {
	Name    string         `json:"name" validate:"required,trimmed_min=2"`
	Email   string         `json:"email" validate:"required,email"`
	Subject ContactSubject `json:"subject" validate:"required,oneof=question commande produit retour partenariat autre"`
	Message string         `json:"message" validate:"required,trimmed_min=10"`
}

// ContactReceipt acknowledges a contact message taken by the support inbox.
type ContactReceipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}
