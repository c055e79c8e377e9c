package postgres

import (
	"fmt"
	"strings"
)

// placeholder returns the n-th positional parameter ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}
