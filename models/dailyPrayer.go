package models

import "time"

// Checklist item keys. Each one is a boolean column on daily_prayer and the
// JSON key the dashboard sends.
const (
	CampusPrayerDone = "campus_prayer_done"
	MassAttended     = "mass_attended"
	RosaryPrayed     = "rosary_prayed"
	WordOfGodRead    = "word_of_god_read"
	OurFatherDone    = "our_father_done"
	Fasting          = "fasting"
	GloryBeTo        = "glory_be_to"
	Memorare         = "memorare"
)

var KnownChecklistItems = []string{
	CampusPrayerDone,
	MassAttended,
	RosaryPrayed,
	WordOfGodRead,
	OurFatherDone,
	Fasting,
	GloryBeTo,
	Memorare,
}

var DefaultChecklistItems = []string{
	CampusPrayerDone,
	MassAttended,
	RosaryPrayed,
	WordOfGodRead,
	OurFatherDone,
}

func IsKnownChecklistItem(item string) bool {
	for _, known := range KnownChecklistItems {
		if known == item {
			return true
		}
	}
	return false
}

// DailyPrayer holds one user's checklist for one calendar day.
type DailyPrayer struct {
	Daily_Prayer_ID    string    `json:"documentId"`
	Account_ID         string    `json:"userId"`
	Prayer_Date        string    `json:"date"`
	Campus_Prayer_Done bool      `json:"campus_prayer_done"`
	Mass_Attended      bool      `json:"mass_attended"`
	Rosary_Prayed      bool      `json:"rosary_prayed"`
	Word_Of_God_Read   bool      `json:"word_of_god_read"`
	Our_Father_Done    bool      `json:"our_father_done"`
	Fasting            bool      `json:"fasting"`
	Glory_Be_To        bool      `json:"glory_be_to"`
	Memorare           bool      `json:"memorare"`
	Datetime_Create    time.Time `json:"-" goqu:"skipinsert"`
	Datetime_Update    time.Time `json:"-" goqu:"skipinsert"`
}

func (d DailyPrayer) Flag(item string) bool {
	switch item {
	case CampusPrayerDone:
		return d.Campus_Prayer_Done
	case MassAttended:
		return d.Mass_Attended
	case RosaryPrayed:
		return d.Rosary_Prayed
	case WordOfGodRead:
		return d.Word_Of_God_Read
	case OurFatherDone:
		return d.Our_Father_Done
	case Fasting:
		return d.Fasting
	case GloryBeTo:
		return d.Glory_Be_To
	case Memorare:
		return d.Memorare
	}
	return false
}

// SetFlag reports false when item is not a checklist column.
func (d *DailyPrayer) SetFlag(item string, value bool) bool {
	switch item {
	case CampusPrayerDone:
		d.Campus_Prayer_Done = value
	case MassAttended:
		d.Mass_Attended = value
	case RosaryPrayed:
		d.Rosary_Prayed = value
	case WordOfGodRead:
		d.Word_Of_God_Read = value
	case OurFatherDone:
		d.Our_Father_Done = value
	case Fasting:
		d.Fasting = value
	case GloryBeTo:
		d.Glory_Be_To = value
	case Memorare:
		d.Memorare = value
	default:
		return false
	}
	return true
}

// DailyPrayerItemUpdate is the body of PUT /api/prayers/daily.
type DailyPrayerItemUpdate struct {
	Prayer_Type string `json:"prayer_type"`
	Completed   *bool  `json:"completed"`
}

type CampusPrayerCount struct {
	Count int64  `json:"count"`
	Date  string `json:"date"`
}

type PrayerStreak struct {
	Streak          int     `json:"streak"`
	LastPrayerDate  *string `json:"lastPrayerDate"`
	TotalPrayerDays int     `json:"totalPrayerDays"`
	Message         string  `json:"message"`
}
