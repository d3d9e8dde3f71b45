// Package settings holds the back office preferences as one explicit,
// typed schema. The document is stored as a single JSON blob under a
// fixed key; sections are replaced through typed setters rather than
// dotted-path mutation.
package settings

import "fmt"

type BusinessProfile struct {
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type WeekHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

type OrderPrefs struct {
	DefaultOrderType   string `json:"defaultOrderType"`
	RequirePickupTime  bool   `json:"requirePickupTime"`
	AllowAdvanceOrders bool   `json:"allowAdvanceOrders"`
	MaxAdvanceDays     int    `json:"maxAdvanceDays"`
}

type NotificationPrefs struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	NewOrderAlerts     bool `json:"newOrderAlerts"`
	LowInventoryAlerts bool `json:"lowInventoryAlerts"`
}

type PaymentPrefs struct {
	TaxRate       float64 `json:"taxRate"`
	Currency      string  `json:"currency"`
	AcceptCash    bool    `json:"acceptCash"`
	AcceptCard    bool    `json:"acceptCard"`
	AcceptDigital bool    `json:"acceptDigital"`
}

type SystemPrefs struct {
	Timezone   string `json:"timezone"`
	DateFormat string `json:"dateFormat"`
	Theme      string `json:"theme"`
}

type Settings struct {
	Business      BusinessProfile   `json:"business"`
	Hours         WeekHours         `json:"hours"`
	Orders        OrderPrefs        `json:"orders"`
	Notifications NotificationPrefs `json:"notifications"`
	Payments      PaymentPrefs      `json:"payments"`
	System        SystemPrefs       `json:"system"`
}

// Default returns the shipped preferences.
func Default() *Settings {
	weekday := DayHours{Open: "09:00", Close: "18:00"}
	return &Settings{
		Business: BusinessProfile{
			BusinessName: "Brown Sugar Bakery",
			Address:      "328 E 75th St, Chicago, IL 60619",
			Phone:        "(773) 224-6804",
			Email:        "info@brownsugar-bakery.com",
			Website:      "https://brownsugar-bakery.com",
		},
		Hours: WeekHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    DayHours{Open: "09:00", Close: "19:00"},
			Saturday:  DayHours{Open: "08:00", Close: "19:00"},
			Sunday:    DayHours{Open: "10:00", Close: "17:00"},
		},
		Orders: OrderPrefs{
			DefaultOrderType:   "In-Store",
			RequirePickupTime:  true,
			AllowAdvanceOrders: true,
			MaxAdvanceDays:     30,
		},
		Notifications: NotificationPrefs{
			EmailNotifications: true,
			SMSNotifications:   false,
			NewOrderAlerts:     true,
			LowInventoryAlerts: true,
		},
		Payments: PaymentPrefs{
			TaxRate:       8.25,
			Currency:      "USD",
			AcceptCash:    true,
			AcceptCard:    true,
			AcceptDigital: true,
		},
		System: SystemPrefs{
			Timezone:   "America/Chicago",
			DateFormat: "MM/DD/YYYY",
			Theme:      "bakery",
		},
	}
}

// Typed section setters; one per top-level schema group.

func (s *Settings) SetBusiness(b BusinessProfile)        { s.Business = b }
func (s *Settings) SetOrders(o OrderPrefs)               { s.Orders = o }
func (s *Settings) SetNotifications(n NotificationPrefs) { s.Notifications = n }
func (s *Settings) SetPayments(p PaymentPrefs)           { s.Payments = p }
func (s *Settings) SetSystem(p SystemPrefs)              { s.System = p }

// SetHoursFor replaces one weekday's hours. Day names are the lowercase
// schema keys.
func (s *Settings) SetHoursFor(day string, hours DayHours) error {
	switch day {
	case "monday":
		s.Hours.Monday = hours
	case "tuesday":
		s.Hours.Tuesday = hours
	case "wednesday":
		s.Hours.Wednesday = hours
	case "thursday":
		s.Hours.Thursday = hours
	case "friday":
		s.Hours.Friday = hours
	case "saturday":
		s.Hours.Saturday = hours
	case "sunday":
		s.Hours.Sunday = hours
	default:
		return fmt.Errorf("unknown day: %s", day)
	}
	return nil
}

// Update carries the sections a save request wants to replace; nil
// sections are left alone.
type Update struct {
	Business      *BusinessProfile   `json:"business"`
	Hours         *WeekHours         `json:"hours"`
	Orders        *OrderPrefs        `json:"orders"`
	Notifications *NotificationPrefs `json:"notifications"`
	Payments      *PaymentPrefs      `json:"payments"`
	System        *SystemPrefs       `json:"system"`
}

// Apply merges an update into the settings through the typed setters.
func (s *Settings) Apply(u Update) {
	if u.Business != nil {
		s.SetBusiness(*u.Business)
	}
	if u.Hours != nil {
		s.Hours = *u.Hours
	}
	if u.Orders != nil {
		s.SetOrders(*u.Orders)
	}
	if u.Notifications != nil {
		s.SetNotifications(*u.Notifications)
	}
	if u.Payments != nil {
		s.SetPayments(*u.Payments)
	}
	if u.System != nil {
		s.SetSystem(*u.System)
	}
}
