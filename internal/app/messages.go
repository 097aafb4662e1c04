package app

import "strconv"

// User-facing notification texts.
const (
	msgRequiredFields = "Proszę wypełnić wymagane pola"
	msgConnection     = "Błąd połączenia"
	msgReadOnly       = "Wydarzenia z subskrypcji są tylko do odczytu"

	msgEventAdded         = "Wydarzenie zostało dodane!"
	msgEventAddFailed     = "Błąd podczas dodawania wydarzenia"
	msgEventUpdated       = "Wydarzenie zostało zaktualizowane!"
	msgEventUpdateFailed  = "Błąd podczas aktualizacji wydarzenia"
	msgEventDeleted       = "Wydarzenie zostało usunięte!"
	msgEventDeleteFailed  = "Błąd podczas usuwania wydarzenia"
	msgTaskLoadFailed     = "Błąd podczas ładowania zadań"
	msgTaskCreated        = "Zadanie utworzone pomyślnie!"
	msgTaskCreateFailed   = "Błąd podczas tworzenia zadania"
	msgTaskCompleted      = "Zadanie ukończone!"
	msgTaskCompleteFailed = "Błąd podczas oznaczania zadania"
	msgTaskDeleted        = "Zadanie usunięte"
	msgTaskDeleteFailed   = "Błąd podczas usuwania zadania"
	msgTaskTitleRequired  = "Proszę wprowadzić tytuł zadania"

	msgNoteTitleRequired = "Proszę wprowadzić tytuł notatki"
	msgNoteAdded         = "Notatka została dodana!"
	msgNoteAddFailed     = "Błąd podczas dodawania notatki"
	msgNoteUpdated       = "Notatka została zaktualizowana!"
	msgNoteUpdateFailed  = "Błąd podczas aktualizacji notatki"
	msgNoteDeleted       = "Notatka została usunięta!"
	msgNoteDeleteFailed  = "Błąd podczas usuwania notatki"
	msgNoteLoadFailed    = "Błąd podczas ładowania notatek"
	msgNotesExported     = "Notatki zostały wyeksportowane!"
	msgNotesImportFailed = "Błąd podczas importu notatek"
	msgNotesBadFormat    = "Nieprawidłowy format pliku"
	msgNotesUnreadable   = "Błąd podczas odczytywania pliku"
)

func msgNotesImported(n int) string {
	return "Zaimportowano " + strconv.Itoa(n) + " notatek!"
}
