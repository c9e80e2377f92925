package vm

import (
	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/word256"
)

const maxStackDepth = 1024

type stack struct {
	data []word256.Word
}

func newStack() *stack {
	return &stack{data: make([]word256.Word, 0, 16)}
}

func (s *stack) push(w word256.Word) error {
	if len(s.data) >= maxStackDepth {
		return aerr.NewVMError(aerr.StackOverflow, "")
	}
	s.data = append(s.data, w)
	return nil
}

func (s *stack) pop() (word256.Word, error) {
	if len(s.data) == 0 {
		return word256.Zero, aerr.NewVMError(aerr.StackUnderflow, "")
	}
	n := len(s.data) - 1
	w := s.data[n]
	s.data = s.data[:n]
	return w, nil
}

func (s *stack) peek(depth int) (word256.Word, error) {
	idx := len(s.data) - 1 - depth
	if idx < 0 {
		return word256.Zero, aerr.NewVMError(aerr.StackUnderflow, "")
	}
	return s.data[idx], nil
}

func (s *stack) dup(n int) error {
	w, err := s.peek(n - 1)
	if err != nil {
		return err
	}
	return s.push(w)
}

func (s *stack) swap(n int) error {
	i := len(s.data) - 1
	j := len(s.data) - 1 - n
	if j < 0 {
		return aerr.NewVMError(aerr.StackUnderflow, "")
	}
	s.data[i], s.data[j] = s.data[j], s.data[i]
	return nil
}

func (s *stack) len() int { return len(s.data) }
