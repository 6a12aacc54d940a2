package usecase

import (
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

const (
	defaultMaxPairs     = 7
	questionDigestChars = 150
	answerDigestChars   = 150
)

var digestCleaner = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "<", "", ">", "")

// cleanDigestFragment flattens a turn to a single line so the " | " joined
// digest stays one line regardless of what the model produced.
func cleanDigestFragment(s string) string {
	return strings.Join(strings.Fields(digestCleaner.Replace(s)), " ")
}

// BuildDigest compresses recent conversation turns into a single line the
// synthesis prompt can carry. Only completed question/answer pairs count;
// answers are truncated so one verbose reply cannot crowd out the rest.
func BuildDigest(turns []domain.Turn, maxPairs int) string {
	if maxPairs <= 0 {
		maxPairs = defaultMaxPairs
	}

	type pair struct {
		question string
		answer   string
	}
	var pairs []pair
	var pendingQuestion string
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleUser:
			pendingQuestion = strings.TrimSpace(turn.Content)
		case domain.RoleAssistant:
			answer := strings.TrimSpace(turn.Answer)
			if answer == "" {
				answer = strings.TrimSpace(turn.Content)
			}
			if pendingQuestion == "" || answer == "" {
				continue
			}
			pairs = append(pairs, pair{question: pendingQuestion, answer: answer})
			pendingQuestion = ""
		}
	}
	if len(pairs) == 0 {
		return ""
	}
	if len(pairs) > maxPairs {
		pairs = pairs[len(pairs)-maxPairs:]
	}

	parts := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		parts = append(parts, "Previous User Question: "+preview(cleanDigestFragment(p.question), questionDigestChars))
		parts = append(parts, "Previous Assistant Answer: "+preview(cleanDigestFragment(p.answer), answerDigestChars))
	}
	return strings.Join(parts, " | ")
}
