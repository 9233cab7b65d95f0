package model

import "time"

// ReminderType is kind of reminder
type ReminderType string

const (
	// ReminderBirthday is upcoming customer birthday
	ReminderBirthday ReminderType = "birthday"
	// ReminderPaymentDue is premium payment due soon
	ReminderPaymentDue ReminderType = "payment-due"
	// ReminderPaymentOverdue is premium payment which is already late
	ReminderPaymentOverdue ReminderType = "payment-overdue"
)

// Reminder is derived notification about customer event, it is never persisted.
// Exactly one of DaysUntil and DaysOverdue is set.
type Reminder struct {
	CustomerID   string       `json:"customerId"`
	CustomerName string       `json:"customerName"`
	Type         ReminderType `json:"type"`
	Date         time.Time    `json:"date"`
	DaysUntil    *int         `json:"daysUntil,omitempty"`
	DaysOverdue  *int         `json:"daysOverdue,omitempty"`
	Message      string       `json:"message"`
}

// Overdue reports whether reminder is about late payment
func (r Reminder) Overdue() bool {
	return r.Type == ReminderPaymentOverdue
}

// DashboardStats is summary of customer collection
type DashboardStats struct {
	TotalCustomers        int `json:"totalCustomers"`
	SignedCount           int `json:"signedCount"`
	PotentialCount        int `json:"potentialCount"`
	DroppedCount          int `json:"droppedCount"`
	UpcomingMeetings      int `json:"upcomingMeetings"`
	UpcomingPayments      int `json:"upcomingPayments"`
	OverduePayments       int `json:"overduePayments"`
	UpcomingBirthdays     int `json:"upcomingBirthdays"`
	NewCustomersThisMonth int `json:"newCustomersThisMonth"`
}

// Dashboard is reminders and statistics computed from the same snapshot at the same moment
type Dashboard struct {
	At        time.Time      `json:"at"`
	Stats     DashboardStats `json:"stats"`
	Reminders []Reminder     `json:"reminders"`
}
