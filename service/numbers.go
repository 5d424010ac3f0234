package service

import (
	"math/rand"
	"sort"

	"bolao/models"
)

// GenerateTicketNumbers draws 6 distinct numbers uniformly from [1,60],
// sorted ascending. There is no uniqueness requirement across tickets.
func GenerateTicketNumbers() []int32 {
	numbers := make([]int32, 0, models.TicketSize)
	seen := make(map[int32]bool, models.TicketSize)

	for len(numbers) < models.TicketSize {
		n := int32(rand.Intn(models.TicketNumberMax-models.TicketNumberMin+1) + models.TicketNumberMin)
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}
