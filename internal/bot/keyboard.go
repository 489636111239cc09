package bot

// Shortcut labels. The exact strings are part of the bot's vocabulary:
// they arrive back as plain message text when a user taps a quick reply,
// so the router matches them verbatim.
const (
	BtnAddGrams  = "Add (grams)"
	BtnAddKcal   = "Add (kcal)"
	BtnList      = "List"
	BtnTotal     = "Total"
	BtnYesterday = "Yesterday"
	BtnWeek      = "Week"
	BtnPickDate  = "Choose date"
	BtnReset     = "Reset"
	BtnCancel    = "Cancel"
)

// reservedLabels is the full shortcut vocabulary, used to reject label text
// that arrives while a flow expects a data value.
var reservedLabels = map[string]bool{
	BtnAddGrams:  true,
	BtnAddKcal:   true,
	BtnList:      true,
	BtnTotal:     true,
	BtnYesterday: true,
	BtnWeek:      true,
	BtnPickDate:  true,
	BtnReset:     true,
	BtnCancel:    true,
}

// IsReservedLabel reports whether the trimmed text equals a shortcut label.
func IsReservedLabel(text string) bool {
	return reservedLabels[text]
}

// MainKeyboard returns the fixed quick-reply grid attached to idle-state
// replies. Declared once, reused unchanged.
func MainKeyboard() [][]string {
	return [][]string{
		{BtnAddGrams, BtnAddKcal, BtnPickDate},
		{BtnList, BtnTotal, BtnYesterday},
		{BtnWeek, BtnReset, BtnCancel},
	}
}
