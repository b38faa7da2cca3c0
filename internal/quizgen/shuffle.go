package quizgen

import "github.com/abhisek/quizgen/internal/quiz"

// shuffleOptions returns a copy of q with its options permuted by shuffle
// and CorrectIndex following the correct option.
func shuffleOptions(q quiz.Question, shuffle func(n int, swap func(i, j int))) quiz.Question {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)

	correct := q.CorrectIndex
	shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	q.Options = opts
	q.CorrectIndex = correct
	return q
}
