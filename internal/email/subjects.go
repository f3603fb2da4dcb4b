package email

const (
	subjectWelcome     = "Il tuo account è stato creato"
	subjectReminderFmt = "Promemoria: %s"
)
