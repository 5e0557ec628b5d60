package model

import "time"

type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Session struct {
	TerminalID string    `json:"terminalId"`
	Token      string    `json:"-"`
	Employee   Employee  `json:"employee"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
