package domain

import (
	"strings"
	"time"
)

type Order struct {
	ID        string
	Username  string
	PayStatus PayStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

const maxUsernameLen = 64

func ValidateUsername(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && len(u) <= maxUsernameLen
}
