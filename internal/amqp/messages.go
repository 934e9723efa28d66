package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a change to a budget record.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseUpdated EventType = "expense.updated"
	EventExpenseDeleted EventType = "expense.deleted"
	EventGoalSet        EventType = "goal.set"
	EventGoalUpdated    EventType = "goal.updated"
)

// Event is the message published after a successful write. It carries
// enough to route and invalidate; consumers reload records from the store.
type Event struct {
	Type        EventType `json:"type"`
	UserID      string    `json:"userId"`
	ExpenseID   string    `json:"expenseId,omitempty"`
	GoalID      string    `json:"goalId,omitempty"`
	AmountCents int64     `json:"amountCents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsExpense reports whether the event concerns an expense.
func (e *Event) IsExpense() bool {
	switch e.Type {
	case EventExpenseCreated, EventExpenseUpdated, EventExpenseDeleted:
		return true
	}
	return false
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and checks an event body.
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Type == "" || ev.UserID == "" {
		return nil, fmt.Errorf("event missing type or user")
	}
	return &ev, nil
}
