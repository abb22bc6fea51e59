package challenge

import (
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Round is one binary-choice question.
type Round struct {
	Prompt  string
	Answer  string
	Options Options
}

// RoundGenerator draws the next round. prev is nil for the first round.
type RoundGenerator func(r Rand, prev *Round) Round

// Binary binds two options to the screen sides. A close on a side answers
// with that side's option, and every judged answer retires the round.
type Binary struct {
	gen     RoundGenerator
	round   Round
	created time.Time
}

// NewBinary returns a binary-choice variant.
func NewBinary(gen RoundGenerator) *Binary {
	return &Binary{gen: gen}
}

func (b *Binary) Generate(now time.Time, r Rand) {
	b.round = b.gen(r, nil)
	b.created = now
}

func (b *Binary) Evaluate(a Answer) Verdict {
	if a.Kind != AnswerClose {
		return Ignored
	}
	if b.round.Options.For(a.Side) == b.round.Answer {
		return Correct
	}
	return Incorrect
}

func (b *Binary) Advance(a Answer, _ Verdict, r Rand) {
	prev := b.round
	b.round = b.gen(r, &prev)
	b.created = a.At
}

func (b *Binary) Challenge(time.Time) Challenge {
	opts := b.round.Options
	return Challenge{
		Prompt:    b.round.Prompt,
		Target:    b.round.Answer,
		Options:   &opts,
		CreatedAt: b.created,
	}
}

// Round returns the active round.
func (b *Binary) Round() Round {
	return b.round
}

// LargerNumber asks for the larger of two distinct numbers in [lo, hi]. The
// larger number never repeats the previous round's answer.
func LargerNumber(lo, hi int) RoundGenerator {
	return func(r Rand, prev *Round) Round {
		for {
			a := Draw(r, lo, hi)
			b := DrawDistinct(r, lo, hi, a)
			answer := strconv.Itoa(max(a, b))
			if prev != nil && answer == prev.Answer && hi-lo > 1 {
				continue
			}
			return Round{
				Prompt:  "Close the hand under the larger number",
				Answer:  answer,
				Options: Options{Left: strconv.Itoa(a), Right: strconv.Itoa(b)},
			}
		}
	}
}

// DefaultWords is the missing-letter word list.
var DefaultWords = []string{"casa", "mesa", "pato", "porta", "sala", "vento", "bola", "parede", "carro", "livro"}

// MissingLetter blanks one letter of a word and offers it against a different
// random letter, with the correct letter on a random side. The blanked word
// never repeats the previous round's.
func MissingLetter(words []string) RoundGenerator {
	return func(r Rand, prev *Round) Round {
		for {
			word := strings.ToUpper(words[r.IntN(len(words))])
			i := r.IntN(len(word))
			prompt := word[:i] + "_" + word[i+1:]
			if prev != nil && prompt == prev.Prompt && len(words) > 1 {
				continue
			}

			letter := word[i]
			wrong := byte(DrawDistinct(r, 'A', 'Z', int(letter)))
			opts := Options{Left: string(letter), Right: string(wrong)}
			if r.IntN(2) == 1 {
				opts.Left, opts.Right = opts.Right, opts.Left
			}
			return Round{Prompt: prompt, Answer: string(letter), Options: opts}
		}
	}
}

// CorrectSide returns the side holding the right answer.
func (b *Binary) CorrectSide() gesture.Side {
	if b.round.Options.Left == b.round.Answer {
		return gesture.SideLeft
	}
	return gesture.SideRight
}

var _ Variant = (*Binary)(nil)
